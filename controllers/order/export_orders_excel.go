package orderControllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/raihanetx/Next-v/models"
)

// ExportOrdersToExcel streams every order as an xlsx download for
// offline bookkeeping.
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create Excel sheet"})
			return
		}

		headers := []string{
			"OrderID", "Status", "Customer", "Phone", "Email",
			"Method", "TrxID", "Subtotal", "Discount", "Total",
			"Items", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			var customer models.CustomerInfo
			var payment models.PaymentInfo
			var totals models.OrderTotals
			json.Unmarshal(o.CustomerInfo, &customer)
			json.Unmarshal(o.PaymentInfo, &payment)
			json.Unmarshal(o.Totals, &totals)

			items := ""
			for i, item := range o.Items {
				if i > 0 {
					items += "; "
				}
				items += fmt.Sprintf("%s x%d", item.Name, item.Quantity)
			}

			row := sheet.AddRow()
			row.AddCell().SetValue(o.OrderID)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(customer.Name)
			row.AddCell().SetValue(customer.Phone)
			row.AddCell().SetValue(customer.Email)
			row.AddCell().SetValue(payment.Method)
			row.AddCell().SetValue(payment.TrxID)
			row.AddCell().SetValue(totals.Subtotal)
			row.AddCell().SetValue(totals.Discount)
			row.AddCell().SetValue(totals.Total)
			row.AddCell().SetValue(items)
			row.AddCell().SetValue(o.CreatedAt.Format(time.RFC3339))
		}

		filename := "orders_" + time.Now().Format("2006-01-02") + ".xlsx"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write Excel file"})
		}
	}
}
