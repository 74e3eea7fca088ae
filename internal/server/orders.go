package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/stocktrail/stocktrail/internal/order/domain"
)

type listOrdersQuery struct {
	Warehouse string `form:"warehouse"`
}

func (s *Server) ListOrders(c *gin.Context) {
	var query listOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orders, err := s.orderSvc.List(c.Request.Context(), orderdomain.ListRequest{
		Warehouse: strings.TrimSpace(query.Warehouse),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders})
}

func (s *Server) ListWarehouses(c *gin.Context) {
	warehouses, err := s.orderSvc.Warehouses(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": warehouses})
}

func (s *Server) GetOrderKPIs(c *gin.Context) {
	report, err := s.orderSvc.KPIs(c.Request.Context(), strings.TrimSpace(c.Query("warehouse")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

type updateOrderRequest struct {
	Status    string `json:"status"`
	InvoiceNo string `json:"invoice_no"`
}

func (s *Server) UpdateOrder(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("order_id"))
	if orderID == "" {
		AbortWithError(c, newValidationError("order_id", "required", "order_id is required"))
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		AbortWithError(c, newValidationError("status", "required", "status is required"))
		return
	}

	record, err := s.orderSvc.Update(c.Request.Context(), orderdomain.UpdateRequest{
		Actor:        identityFrom(c),
		OrderID:      orderID,
		NewStatus:    status,
		NewInvoiceNo: strings.TrimSpace(req.InvoiceNo),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record})
}
