// Standalone report processor: exports the module installation status of
// every tenant to an Excel workbook and mails it to the configured admins.
// Run from cron, independently of the activation worker.
package main

import (
	"fmt"
	"log"
	"time"

	"admin-app/config"
	"admin-app/database"
	"admin-app/repositories"

	"github.com/xuri/excelize/v2"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

func main() {
	config.LoadConfig()

	db, err := database.OpenMasterDB()
	if err != nil {
		log.Fatalf("Failed to connect to master database: %v", err)
	}

	fmt.Println("Installation report processor running...")

	filename, err := exportInstallationReport(db)
	if err != nil {
		log.Fatalf("Failed to export installation report: %v", err)
	}
	fmt.Println("Report written:", filename)

	if err := sendReportEmail(filename); err != nil {
		log.Println("Failed to send report email:", err)
	}

	fmt.Println("Done")
}

func exportInstallationReport(db *gorm.DB) (string, error) {
	directory := database.NewDirectory(db)
	installations := repositories.NewInstallationRepository(db)

	tenants, err := directory.ListTenants()
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Installations"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Tenant", "Database", "Module", "Active", "Version", "Installed At", "Uninstalled At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, tenant := range tenants {
		rows, err := installations.ListByTenant(tenant.ID)
		if err != nil {
			return "", err
		}
		for _, inst := range rows {
			values := []interface{}{
				tenant.Name,
				tenant.DbName,
				inst.ModuleName,
				inst.IsActive,
				inst.InstalledVersion,
				formatTime(inst.InstalledAt),
				formatTime(inst.UninstalledAt),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	filename := fmt.Sprintf("installation_report_%s.xlsx", time.Now().Format("20060102_150405"))
	if err := f.SaveAs(filename); err != nil {
		return "", err
	}
	return filename, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func sendReportEmail(filename string) error {
	toEmails := config.AdminEmails()
	if len(toEmails) == 0 || config.SMTPHost == "" {
		return nil
	}

	subject := "Module installation report " + time.Now().Format("2006-01-02")
	body := `
		<html>
			<body>
				<h3>Module installation report</h3>
				<p>The current per-tenant module installation status is attached.</p>
				<p>This is an auto-generated email. Please do not reply.</p>
			</body>
		</html>
	`

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SenderEmail)
	msg.SetHeader("To", toEmails...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	msg.Attach(filename)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SenderEmail, config.SenderPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		return err
	}

	fmt.Println("Report email sent to:", toEmails)
	return nil
}
