//-------------------------------------------------------------------------
//
// Northwind Data Warehouse ETL
//
// Copyright (c) 2025 - 2026, the northwind-dw authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package transform

import (
	"fmt"
	"strings"

	"github.com/northwind-dw/etl/internal/table"
)

const unknown = "Unknown"

var shipperSpecs = []colSpec{
	{src: "shipperid", dst: "shipper_id", typ: kindInt},
	{src: "companyname", dst: "company_name", typ: kindString},
	{src: "phone", dst: "phone", typ: kindString},
}

// buildShipper builds dim_shipper from the shippers source.
func buildShipper(shippers *table.Table) (*table.Table, error) {
	return buildDimension(shippers, "shipper_key", shipperSpecs)
}

var customerSpecs = []colSpec{
	{src: "customerid", dst: "customer_id", typ: kindString},
	{src: "companyname", dst: "company_name", typ: kindString},
	{src: "contactname", dst: "contact_name", typ: kindString},
	{src: "contacttitle", dst: "contact_title", typ: kindString},
	{src: "address", dst: "address", typ: kindString},
	{src: "city", dst: "city", typ: kindString},
	{src: "region", dst: "region", typ: kindString, def: unknown},
	{src: "postalcode", dst: "postal_code", typ: kindString, def: unknown},
	{src: "country", dst: "country", typ: kindString},
	{src: "phone", dst: "phone", typ: kindString},
	{src: "fax", dst: "fax", typ: kindString},
}

// buildCustomer builds dim_customer from the customers source. Region and
// postal code are optional in the exports and default to "Unknown".
func buildCustomer(customers *table.Table) (*table.Table, error) {
	return buildDimension(customers, "customer_key", customerSpecs)
}

var employeeSpecs = []colSpec{
	{src: "employeeid", dst: "employee_id", typ: kindInt},
	{src: "lastname", dst: "last_name", typ: kindString},
	{src: "firstname", dst: "first_name", typ: kindString},
	{src: "title", dst: "title", typ: kindString},
	{src: "titleofcourtesy", dst: "title_of_courtesy", typ: kindString},
	{src: "birthdate", dst: "birth_date", typ: kindDate},
	{src: "hiredate", dst: "hire_date", typ: kindDate},
	{src: "address", dst: "address", typ: kindString},
	{src: "city", dst: "city", typ: kindString},
	{src: "region", dst: "region", typ: kindString},
	{src: "country", dst: "country", typ: kindString},
	{src: "homephone", dst: "home_phone", typ: kindString},
	{src: "reportsto", dst: "reports_to", typ: kindInt},
	{src: "salary", dst: "salary", typ: kindFloat, def: 0.0},
}

// employeeColumns is the persisted dim_employee column order.
var employeeColumns = []string{
	"employee_key", "employee_id", "last_name", "first_name", "full_name",
	"title", "title_of_courtesy", "birth_date", "hire_date", "address",
	"city", "region", "country", "home_phone", "reports_to",
	"reports_to_name", "salary",
}

// buildEmployee builds dim_employee. Beyond the declared columns it
// composes full_name from the name parts and resolves each employee's
// supervisor name through a self-lookup on reports_to. A reports_to id
// that does not resolve (top of the hierarchy or a dangling reference)
// yields "N/A".
func buildEmployee(employees *table.Table) (*table.Table, error) {
	base, err := buildDimension(employees, "employee_key", employeeSpecs)
	if err != nil {
		return nil, err
	}

	fullNames := make(map[int]string, base.NumRows())
	for i := 0; i < base.NumRows(); i++ {
		id, ok := base.Value(i, "employee_id").(int)
		if !ok {
			continue
		}
		fullNames[id] = fullName(base.Value(i, "first_name"), base.Value(i, "last_name"))
	}

	out := table.New(employeeColumns...)
	for i := 0; i < base.NumRows(); i++ {
		reportsToName := "N/A"
		if sup, ok := base.Value(i, "reports_to").(int); ok {
			if name, found := fullNames[sup]; found {
				reportsToName = name
			}
		}

		row := make([]any, 0, len(employeeColumns))
		for _, col := range employeeColumns {
			switch col {
			case "full_name":
				row = append(row, fullName(base.Value(i, "first_name"), base.Value(i, "last_name")))
			case "reports_to_name":
				row = append(row, reportsToName)
			default:
				row = append(row, base.Value(i, col))
			}
		}
		if err := out.Append(row); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func fullName(first, last any) string {
	f, _ := first.(string)
	l, _ := last.(string)
	return strings.TrimSpace(fmt.Sprintf("%s %s", f, l))
}
