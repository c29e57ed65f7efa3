package models

import "gorm.io/gorm"

// Customer lives in the tenant database, owned by the "customers" module.
type Customer struct {
	gorm.Model
	CustomerCode string `json:"customer_code" gorm:"unique"`
	CustomerName string `json:"customer_name"`
	CustAddr1    string `json:"cust_addr1"`
	CustAddr2    string `json:"cust_addr2"`
	CustCity     string `json:"cust_city"`
	CustPhone    string `json:"cust_phone"`
	CustCountry  string `json:"cust_country"`
	CustEmail    string `json:"cust_email"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}
