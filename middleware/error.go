package middleware

import (
	"github.com/BerniceZTT/case_end/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandler 全局错误处理中间件, 处理通过 c.Error 记录但未写出响应的错误
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// 如果已经写出响应，不重复处理
		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		// 获取最后一个错误
		utils.HandleError(c, c.Errors.Last().Err)
	}
}
