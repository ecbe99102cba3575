package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type MetricsModule struct {
	Handler http.Handler
}

func NewMetricsModule(h http.Handler) *MetricsModule { return &MetricsModule{Handler: h} }

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/metrics", gin.WrapH(m.Handler))
}
