package normalizer

import (
	"strings"

	"github.com/screenforge/screenforge/internal/models"
)

// baseTypeMap translates storage data types to semantic UI field types.
// Suffix overrides in suffixOverride take precedence.
var baseTypeMap = map[string]models.FieldType{
	"string":    models.FieldText,
	"varchar":   models.FieldText,
	"varchar2":  models.FieldText,
	"char":      models.FieldText,
	"nvarchar":  models.FieldText,
	"int":       models.FieldNumber,
	"integer":   models.FieldNumber,
	"bigint":    models.FieldNumber,
	"smallint":  models.FieldNumber,
	"decimal":   models.FieldNumber,
	"numeric":   models.FieldNumber,
	"float":     models.FieldNumber,
	"double":    models.FieldNumber,
	"number":    models.FieldNumber,
	"date":      models.FieldDate,
	"timestamp": models.FieldDateTime,
	"datetime":  models.FieldDateTime,
	"bool":      models.FieldCheckbox,
	"boolean":   models.FieldCheckbox,
	"text":      models.FieldTextArea,
	"clob":      models.FieldTextArea,
	"longtext":  models.FieldTextArea,
}

// Column-name suffixes that force a field type regardless of data type.
var suffixOverride = []struct {
	suffix string
	ftype  models.FieldType
}{
	{"_yn", models.FieldCheckbox},
	{"_flag", models.FieldCheckbox},
	{"_cd", models.FieldSelect},
	{"_code", models.FieldSelect},
	{"_dt", models.FieldDate},
	{"_date", models.FieldDate},
}

// knownLabels maps common column names to display labels; misses fall back
// to a mechanical transformation.
var knownLabels = map[string]string{
	"cust_id":    "Customer ID",
	"cust_name":  "Customer Name",
	"cust_nm":    "Customer Name",
	"user_id":    "User ID",
	"user_name":  "User Name",
	"emp_no":     "Employee No",
	"emp_name":   "Employee Name",
	"dept_cd":    "Department",
	"dept_name":  "Department Name",
	"ord_no":     "Order No",
	"ord_dt":     "Order Date",
	"prod_cd":    "Product Code",
	"prod_name":  "Product Name",
	"reg_dt":     "Registered Date",
	"upd_dt":     "Updated Date",
	"use_yn":     "In Use",
	"del_yn":     "Deleted",
	"email":      "Email",
	"tel_no":     "Phone No",
	"addr":       "Address",
	"rmk":        "Remarks",
	"amt":        "Amount",
	"qty":        "Quantity",
	"unit_price": "Unit Price",
}

func fromSchema(in Input, kind models.ScreenKind) (*models.Intent, error) {
	if len(in.Columns) == 0 {
		return nil, &NormalizationError{Reason: "schema input", Err: ErrEmptyColumns}
	}

	fields := make([]models.Field, 0, len(in.Columns))
	seen := make(map[string]bool, len(in.Columns))
	for _, col := range in.Columns {
		name := strings.ToLower(strings.TrimSpace(col.Name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		fields = append(fields, columnToField(name, col))
	}
	if len(fields) == 0 {
		return nil, &NormalizationError{Reason: "schema input", Err: ErrEmptyColumns}
	}

	actions := in.Actions
	if len(actions) == 0 {
		actions = defaultActions(kind)
	}

	return &models.Intent{
		Name:    intentName(in.Table, kind),
		Product: in.Product,
		Kind:    kind,
		Fields:  fields,
		Actions: actions,
	}, nil
}

func columnToField(name string, col Column) models.Field {
	ftype := inferFieldType(name, col.DataType)

	f := models.Field{
		Name:     name,
		Type:     ftype,
		Label:    labelFor(name),
		Required: !col.Nullable && !col.PrimaryKey,
	}
	if col.PrimaryKey {
		// Keys are carried but never edited on screen.
		f.ReadOnly = true
		f.Required = false
	}
	return f
}

func inferFieldType(name, dataType string) models.FieldType {
	for _, o := range suffixOverride {
		if strings.HasSuffix(name, o.suffix) {
			return o.ftype
		}
	}
	if t, ok := baseTypeMap[strings.ToLower(strings.TrimSpace(dataType))]; ok {
		return t
	}
	return models.FieldText
}

func labelFor(name string) string {
	if label, ok := knownLabels[name]; ok {
		return label
	}
	return titleize(name)
}

// titleize turns "order_item_cnt" into "Order Item Cnt".
func titleize(name string) string {
	name = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
