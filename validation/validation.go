// Package validation 对原始请求 JSON 做字段校验, 一次收集所有失败字段.
package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/utils"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

var validate = validator.New()

var (
	dateTimeTag = "required,datetime=" + models.DateTimeLayout
	timeTag     = "required,datetime=" + models.TimeLayout
)

// Predicate 单个字段的校验规则
type Predicate struct {
	Field    string
	optional bool
	check    func(value gjson.Result) string
}

// Optional 字段不存在时跳过校验
func (p Predicate) Optional() Predicate {
	p.optional = true
	return p
}

// CheckValid 依次执行所有规则, 返回全部失败字段
func CheckValid(doc gjson.Result, predicates ...Predicate) []utils.FieldError {
	var fieldErrors []utils.FieldError
	for _, p := range predicates {
		value := doc.Get(p.Field)
		if p.optional && !value.Exists() {
			continue
		}
		if msg := p.check(value); msg != "" {
			fieldErrors = append(fieldErrors, utils.FieldError{Field: p.Field, Message: msg})
		}
	}
	return fieldErrors
}

// ValidID 正整数 id, 可以是数字或数字字符串
func ValidID(field string) Predicate {
	return Predicate{Field: field, check: func(value gjson.Result) string {
		if !IsID(value) {
			return field + " must be a valid id"
		}
		return ""
	}}
}

// ValidArray 非空数组, 每个元素都满足 elem
func ValidArray(field string, elem func(gjson.Result) bool) Predicate {
	return Predicate{Field: field, check: func(value gjson.Result) string {
		if !value.IsArray() {
			return field + " must be a non-empty array"
		}
		items := value.Array()
		if len(items) == 0 {
			return field + " must be a non-empty array"
		}
		for _, item := range items {
			if !elem(item) {
				return field + " contains an invalid item: " + item.Raw
			}
		}
		return ""
	}}
}

// ValidDateTime RFC3339 日期时间
func ValidDateTime(field string) Predicate {
	return Predicate{Field: field, check: func(value gjson.Result) string {
		if !IsDateTime(value) {
			return field + " must be a valid date-time"
		}
		return ""
	}}
}

// NullableValidDateTime 为空或缺省时通过, 否则必须是合法日期时间
func NullableValidDateTime(field string) Predicate {
	return Predicate{Field: field, check: func(value gjson.Result) string {
		if !value.Exists() || value.Type == gjson.Null {
			return ""
		}
		if !IsDateTime(value) {
			return field + " must be a valid date-time or null"
		}
		return ""
	}}
}

// ValidTime HH:MM:SS 格式的时间
func ValidTime(field string) Predicate {
	return Predicate{Field: field, check: func(value gjson.Result) string {
		if value.Type != gjson.String || validate.Var(value.Str, timeTag) != nil {
			return field + " must be a valid time (HH:MM:SS)"
		}
		return ""
	}}
}

// ValidString 字符串字段, 可为空串
func ValidString(field string) Predicate {
	return Predicate{Field: field, check: func(value gjson.Result) string {
		if value.Type != gjson.String {
			return field + " must be a string"
		}
		return ""
	}}
}

// IsID 判断是否为正整数 id
func IsID(value gjson.Result) bool {
	switch value.Type {
	case gjson.Number:
		return validate.Var(value.Num, "gt=0") == nil && value.Num == math.Trunc(value.Num) && value.Num < math.MaxInt64
	case gjson.String:
		if validate.Var(value.Str, "required,number") != nil {
			return false
		}
		id, err := strconv.ParseInt(value.Str, 10, 64)
		return err == nil && id > 0
	}
	return false
}

// IsDateTime 判断是否为 RFC3339 日期时间字符串
func IsDateTime(value gjson.Result) bool {
	return value.Type == gjson.String && validate.Var(value.Str, dateTimeTag) == nil
}

// ParseID 读取已校验的 id
func ParseID(value gjson.Result) int64 {
	if value.Type == gjson.String {
		id, _ := strconv.ParseInt(value.Str, 10, 64)
		return id
	}
	return value.Int()
}

// ParseIDs 读取已校验的 id 数组, 去重并保持原顺序
func ParseIDs(value gjson.Result) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, item := range value.Array() {
		id := ParseID(item)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// ParseDateTime 读取已校验的日期时间, 统一为 UTC
func ParseDateTime(value gjson.Result) time.Time {
	t, _ := time.Parse(models.DateTimeLayout, value.Str)
	return t.UTC()
}

// ParseNullableDateTime 读取可为空的日期时间
func ParseNullableDateTime(value gjson.Result) *time.Time {
	if !value.Exists() || value.Type == gjson.Null {
		return nil
	}
	t := ParseDateTime(value)
	return &t
}

// FromParams 把路径参数转换为可校验的文档
func FromParams(params map[string]string) gjson.Result {
	raw, err := json.Marshal(params)
	if err != nil {
		return gjson.Result{}
	}
	return gjson.ParseBytes(raw)
}
