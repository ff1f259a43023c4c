package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestCheckValidCollectsEveryFailingField(t *testing.T) {
	doc := gjson.Parse(`{"serviceIds":[],"dateOfContact":"not-a-date","duration":"30 minutes","appointmentDate":"tomorrow"}`)

	errs := CheckValid(doc,
		ValidArray("serviceIds", IsID),
		ValidDateTime("dateOfContact"),
		ValidTime("duration"),
		NullableValidDateTime("appointmentDate"),
	)

	require.Len(t, errs, 4)
	got := make([]string, 0, len(errs))
	for _, e := range errs {
		got = append(got, e.Field)
	}
	assert.Equal(t, []string{"serviceIds", "dateOfContact", "duration", "appointmentDate"}, got)
}

func TestCheckValidPassesGoodPayload(t *testing.T) {
	doc := gjson.Parse(`{"serviceIds":[1,"2"],"dateOfContact":"2024-01-10T10:00:00Z","duration":"00:30:00","appointmentDate":null}`)

	errs := CheckValid(doc,
		ValidArray("serviceIds", IsID),
		ValidDateTime("dateOfContact"),
		ValidTime("duration"),
		NullableValidDateTime("appointmentDate"),
	)

	assert.Empty(t, errs)
}

func TestIsID(t *testing.T) {
	cases := map[string]bool{
		`5`:      true,
		`"12"`:   true,
		`0`:      false,
		`-3`:     false,
		`1.5`:    false,
		`"abc"`:  false,
		`"-1"`:   false,
		`""`:     false,
		`null`:   false,
		`[1]`:    false,
		`true`:   false,
		`"0012"`: true,
	}
	for raw, want := range cases {
		assert.Equal(t, want, IsID(gjson.Parse(raw)), "IsID(%s)", raw)
	}
}

func TestValidArrayRejectsBadShapes(t *testing.T) {
	for _, raw := range []string{`{}`, `{"serviceIds":"1,2"}`, `{"serviceIds":[]}`, `{"serviceIds":[1,0]}`, `{"serviceIds":[1,"x"]}`} {
		errs := CheckValid(gjson.Parse(raw), ValidArray("serviceIds", IsID))
		require.Len(t, errs, 1, raw)
		assert.Equal(t, "serviceIds", errs[0].Field)
	}
}

func TestNullableValidDateTime(t *testing.T) {
	p := NullableValidDateTime("appointmentDate")
	assert.Empty(t, CheckValid(gjson.Parse(`{}`), p))
	assert.Empty(t, CheckValid(gjson.Parse(`{"appointmentDate":null}`), p))
	assert.Empty(t, CheckValid(gjson.Parse(`{"appointmentDate":"2024-02-01T09:30:00-05:00"}`), p))
	assert.Len(t, CheckValid(gjson.Parse(`{"appointmentDate":"2024-02-01"}`), p), 1)
	assert.Len(t, CheckValid(gjson.Parse(`{"appointmentDate":17}`), p), 1)
}

func TestOptionalSkipsMissingField(t *testing.T) {
	p := ValidDateTime("dateOfContact").Optional()
	assert.Empty(t, CheckValid(gjson.Parse(`{}`), p))
	assert.Len(t, CheckValid(gjson.Parse(`{"dateOfContact":null}`), p), 1)
}

func TestFromParams(t *testing.T) {
	doc := FromParams(map[string]string{"clientId": "5", "followUpId": "x"})
	errs := CheckValid(doc, ValidID("clientId"), ValidID("followUpId"))
	require.Len(t, errs, 1)
	assert.Equal(t, "followUpId", errs[0].Field)
	assert.Equal(t, int64(5), ParseID(doc.Get("clientId")))
}

func TestParseHelpers(t *testing.T) {
	doc := gjson.Parse(`{"serviceIds":[3,"1",3,2],"dateOfContact":"2024-01-10T05:00:00-05:00","appointmentDate":null}`)

	assert.Equal(t, []int64{3, 1, 2}, ParseIDs(doc.Get("serviceIds")))
	assert.Equal(t, time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC), ParseDateTime(doc.Get("dateOfContact")))
	assert.Nil(t, ParseNullableDateTime(doc.Get("appointmentDate")))
	assert.Nil(t, ParseNullableDateTime(doc.Get("missing")))
}
