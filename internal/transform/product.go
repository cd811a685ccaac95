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
	"github.com/northwind-dw/etl/internal/table"
)

// productSpecs cover the joined product/category/supplier row. Supplier
// attributes reference the "_sup"-suffixed names first because the
// supplier join renames colliding columns; the bare name is the fallback
// when no collision occurred.
var productSpecs = []colSpec{
	{src: "productid", dst: "product_id", typ: kindInt},
	{src: "productname", dst: "product_name", typ: kindString},
	{src: "categoryid", dst: "category_id", typ: kindInt},
	{src: "categoryname", dst: "category_name", typ: kindString, def: unknown},
	{src: "categorydescription", alt: "description", dst: "category_description", typ: kindString},
	{src: "supplierid", dst: "supplier_id", typ: kindInt},
	{src: "companyname_sup", alt: "companyname", dst: "supplier_name", typ: kindString, def: unknown},
	{src: "contactname_sup", alt: "contactname", dst: "supplier_contact_name", typ: kindString, def: unknown},
	{src: "country_sup", alt: "country", dst: "supplier_country", typ: kindString, def: unknown},
	{src: "phone_sup", alt: "phone", dst: "supplier_phone", typ: kindString, def: unknown},
	{src: "quantityperunit", dst: "quantity_per_unit", typ: kindString},
	{src: "unitprice", dst: "unit_price", typ: kindFloat},
	{src: "unitsinstock", dst: "units_in_stock", typ: kindInt, def: 0},
	{src: "unitsonorder", dst: "units_on_order", typ: kindInt, def: 0},
	{src: "reorderlevel", dst: "reorder_level", typ: kindInt, def: 0},
	{src: "discontinued", dst: "discontinued", typ: kindBool, def: false},
}

// buildProduct builds dim_product by left-joining products against
// categories and suppliers, then materializing the declared columns.
// The surrogate key is assigned over the joined result, so a product
// without a matching category or supplier still gets a row (with the
// supplier/category attributes defaulted).
func buildProduct(products, categories, suppliers *table.Table) (*table.Table, error) {
	joined, err := products.LeftJoin(categories, "categoryid", "categoryid", "_prod", "_cat")
	if err != nil {
		return nil, err
	}
	joined, err = joined.LeftJoin(suppliers, "supplierid", "supplierid", "_prod", "_sup")
	if err != nil {
		return nil, err
	}
	return buildDimension(joined, "product_key", productSpecs)
}
