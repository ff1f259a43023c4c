package controllers

import (
	"net/http"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/service"
	"github.com/BerniceZTT/case_end/utils"
	"github.com/BerniceZTT/case_end/validation"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

// FollowUpController 客户跟进记录接口
type FollowUpController struct {
	followUps *service.FollowUpService
}

// NewFollowUpController 创建跟进记录控制器
func NewFollowUpController(followUps *service.FollowUpService) *FollowUpController {
	return &FollowUpController{followUps: followUps}
}

// GetClientFollowUps 获取某个客户的跟进记录列表
func (ctl *FollowUpController) GetClientFollowUps(c *gin.Context) {
	params := validation.FromParams(map[string]string{"clientId": c.Param("clientId")})
	if err := utils.NewValidationError(validation.CheckValid(params, validation.ValidID("clientId"))); err != nil {
		utils.HandleError(c, err)
		return
	}
	clientID := validation.ParseID(params.Get("clientId"))

	followUps, err := ctl.followUps.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.LogInfo(map[string]interface{}{
		"clientId":    clientID,
		"recordCount": len(followUps),
	}, "client follow-ups loaded")

	c.JSON(http.StatusOK, gin.H{"followUps": followUps})
}

// GetFollowUp 获取单条跟进记录
func (ctl *FollowUpController) GetFollowUp(c *gin.Context) {
	clientID, followUpID, err := followUpPath(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	followUp, err := ctl.followUps.Get(c.Request.Context(), clientID, followUpID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, followUp)
}

// CreateFollowUp 创建跟进记录
func (ctl *FollowUpController) CreateFollowUp(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	doc, err := readJSONObject(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	params := validation.FromParams(map[string]string{"clientId": c.Param("clientId")})
	fieldErrors := validation.CheckValid(params, validation.ValidID("clientId"))
	fieldErrors = append(fieldErrors, validation.CheckValid(doc,
		validation.ValidArray("serviceIds", validation.IsID),
		validation.ValidString("title").Optional(),
		validation.ValidString("description").Optional(),
		validation.ValidDateTime("dateOfContact"),
		validation.ValidTime("duration"),
		validation.NullableValidDateTime("appointmentDate"),
	)...)
	if err := utils.NewValidationError(fieldErrors); err != nil {
		utils.HandleError(c, err)
		return
	}

	clientID := validation.ParseID(params.Get("clientId"))
	input := models.CreateFollowUpInput{
		ServiceIDs:      validation.ParseIDs(doc.Get("serviceIds")),
		Title:           doc.Get("title").Str,
		Description:     doc.Get("description").Str,
		DateOfContact:   validation.ParseDateTime(doc.Get("dateOfContact")),
		AppointmentDate: validation.ParseNullableDateTime(doc.Get("appointmentDate")),
		Duration:        doc.Get("duration").Str,
	}

	followUp, err := ctl.followUps.Create(c.Request.Context(), user, clientID, input)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, followUp)
}

// UpdateFollowUp 更新跟进记录, 只修改请求体中出现的字段
func (ctl *FollowUpController) UpdateFollowUp(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	doc, err := readJSONObject(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	params := validation.FromParams(map[string]string{
		"clientId":   c.Param("clientId"),
		"followUpId": c.Param("followUpId"),
	})
	fieldErrors := validation.CheckValid(params,
		validation.ValidID("clientId"),
		validation.ValidID("followUpId"),
	)
	fieldErrors = append(fieldErrors, validation.CheckValid(doc,
		validation.ValidArray("serviceIds", validation.IsID).Optional(),
		validation.ValidString("title").Optional(),
		validation.ValidString("description").Optional(),
		validation.ValidDateTime("dateOfContact").Optional(),
		validation.NullableValidDateTime("appointmentDate"),
	)...)
	if err := utils.NewValidationError(fieldErrors); err != nil {
		utils.HandleError(c, err)
		return
	}

	followUp, err := ctl.followUps.Update(
		c.Request.Context(),
		user,
		validation.ParseID(params.Get("clientId")),
		validation.ParseID(params.Get("followUpId")),
		updateInput(doc),
	)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, followUp)
}

// updateInput 从已校验的请求体构造更新输入
func updateInput(doc gjson.Result) models.UpdateFollowUpInput {
	var input models.UpdateFollowUpInput
	if v := doc.Get("serviceIds"); v.Exists() {
		input.ServiceIDs = validation.ParseIDs(v)
		input.ServiceIDsSet = true
	}
	if v := doc.Get("title"); v.Exists() {
		title := v.Str
		input.Title = &title
	}
	if v := doc.Get("description"); v.Exists() {
		description := v.Str
		input.Description = &description
	}
	if v := doc.Get("dateOfContact"); v.Exists() {
		dateOfContact := validation.ParseDateTime(v)
		input.DateOfContact = &dateOfContact
	}
	if v := doc.Get("appointmentDate"); v.Exists() {
		input.AppointmentDate = validation.ParseNullableDateTime(v)
		input.AppointmentDateSet = true
	}
	return input
}

// followUpPath 校验并读取路径中的客户 id 和跟进记录 id
func followUpPath(c *gin.Context) (int64, int64, error) {
	params := validation.FromParams(map[string]string{
		"clientId":   c.Param("clientId"),
		"followUpId": c.Param("followUpId"),
	})
	fieldErrors := validation.CheckValid(params,
		validation.ValidID("clientId"),
		validation.ValidID("followUpId"),
	)
	if err := utils.NewValidationError(fieldErrors); err != nil {
		return 0, 0, err
	}
	return validation.ParseID(params.Get("clientId")), validation.ParseID(params.Get("followUpId")), nil
}
