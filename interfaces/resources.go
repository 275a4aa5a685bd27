package interfaces

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"recruitment-tracker/service"
)

type pageQuery struct {
	Skip  int `form:"skip" binding:"min=0"`
	Limit int `form:"limit,default=100" binding:"min=1,max=1000"`
}

type scopeFunc func(c *gin.Context) []func(*gorm.DB) *gorm.DB

func locationFilter(c *gin.Context) []func(*gorm.DB) *gorm.DB {
	location := c.Query("location")
	if location == "" {
		return nil
	}
	return []func(*gorm.DB) *gorm.DB{func(db *gorm.DB) *gorm.DB {
		return db.Where("location = ?", location)
	}}
}

func listHandler[T any](h *HTTPHandler, scopes scopeFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q pageQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			h.bindError(c, err)
			return
		}
		var extra []func(*gorm.DB) *gorm.DB
		if scopes != nil {
			extra = scopes(c)
		}
		records, err := service.List[T](c.Request.Context(), h.DB, service.Page{Skip: q.Skip, Limit: q.Limit}, extra...)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

func getHandler[T any](h *HTTPHandler, entity string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		record, err := service.Find[T](c.Request.Context(), h.DB, entity, id)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

// updateHandler binds a patch body and hands it to update.
func updateHandler[T any, P any](h *HTTPHandler, update func(context.Context, uint, P) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		var patch P
		if err := c.ShouldBindJSON(&patch); err != nil {
			h.bindError(c, err)
			return
		}
		record, err := update(c.Request.Context(), id, patch)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func deleteHandler(h *HTTPHandler, remove func(context.Context, uint) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		if err := remove(c.Request.Context(), id); err != nil {
			h.writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
