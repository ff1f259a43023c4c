package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/BerniceZTT/case_end/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// readJSONObject 读取原始请求体, 只接受 JSON 对象
func readJSONObject(c *gin.Context) (gjson.Result, error) {
	body, err := c.GetRawData()
	if err != nil {
		return gjson.Result{}, utils.CreateBadRequestError("failed to read request body")
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, utils.CreateBadRequestError("request body must be valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return gjson.Result{}, utils.CreateBadRequestError("request body must be a JSON object")
	}
	return doc, nil
}

// bindingError 把 gin 绑定错误转换为字段错误列表
func bindingError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return utils.CreateBadRequestError("invalid request body: " + err.Error())
	}
	fieldErrors := make([]utils.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		field := jsonFieldName(fe.Field())
		fieldErrors = append(fieldErrors, utils.FieldError{
			Field:   field,
			Message: field + " failed on the '" + fe.Tag() + "' rule",
		})
	}
	return utils.NewValidationError(fieldErrors)
}

// jsonFieldName 结构体字段名转为 JSON 中的驼峰名
func jsonFieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// queryInt 读取整数查询参数, 缺省或非法时返回 0
func queryInt(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}
