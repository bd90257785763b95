package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenforge/screenforge/internal/models"
)

func listIntent() *models.Intent {
	return &models.Intent{
		Name:    "customer_list",
		Product: "miplatform",
		Kind:    models.KindList,
		Fields: []models.Field{
			{Name: "cust_id", Type: models.FieldText, Label: "Customer ID"},
		},
		Actions: []models.Action{models.ActionSearch},
	}
}

const goodScreenOutput = `[SCREEN]
<Form id="customer_list">
  <Dataset id="ds_list"/>
  <Grid id="grd_list" binddataset="ds_list"/>
</Form>
[SCRIPT]
function fn_search() {
  ds_list.clearData();
}
`

func TestValidateCleanOutput(t *testing.T) {
	artifacts, result, err := Validate(goodScreenOutput, listIntent(), "miplatform")
	require.NoError(t, err)

	assert.False(t, result.HasErrors(), "findings: %+v", result.Findings)

	screen, ok := artifacts.Get("screen")
	require.True(t, ok)
	assert.Contains(t, screen, "ds_list")

	script, ok := artifacts.Get("script")
	require.True(t, ok)
	assert.Contains(t, script, "fn_search")
}

func TestValidateMissingRequiredSlot(t *testing.T) {
	raw := `[SCREEN]
<Form id="customer_list"><Dataset id="ds_list"/></Form>
`
	_, result, err := Validate(raw, listIntent(), "miplatform")
	require.NoError(t, err)

	require.True(t, result.HasErrors())
	found := false
	for _, f := range result.Findings {
		if f.Severity == models.SeverityError && f.Slot == "script" {
			found = true
			assert.Contains(t, f.Message, "[SCRIPT]")
		}
	}
	assert.True(t, found, "missing script slot must be named in an error finding")
}

func TestValidateUnknownSlotIgnored(t *testing.T) {
	raw := goodScreenOutput + `[NOTES]
ignore me entirely
`
	artifacts, result, err := Validate(raw, listIntent(), "miplatform")
	require.NoError(t, err)
	assert.False(t, result.HasErrors())
	_, ok := artifacts.Get("notes")
	assert.False(t, ok)
}

func TestValidateMalformedMarkup(t *testing.T) {
	raw := `[SCREEN]
<Form id="x">
  <Dataset id="ds_list">
</Form>
[SCRIPT]
function fn_search() {}
`
	_, result, err := Validate(raw, listIntent(), "miplatform")
	require.NoError(t, err)

	require.True(t, result.HasErrors())
	var f *models.Finding
	for i := range result.Findings {
		if result.Findings[i].Category == "structure" {
			f = &result.Findings[i]
		}
	}
	require.NotNil(t, f)
	assert.Equal(t, "screen", f.Slot)
	assert.Positive(t, f.Line)
}

func TestValidateNamingConventions(t *testing.T) {
	raw := `[SCREEN]
<Form id="x">
  <Dataset id="badName"/>
  <Grid id="grd_main" binddataset="badName"/>
</Form>
[SCRIPT]
function fn_search() { badName.clearData(); }
function helper() {}
`
	_, result, err := Validate(raw, listIntent(), "miplatform")
	require.NoError(t, err)

	var warned []string
	for _, f := range result.Findings {
		if f.Category == "naming" && f.Severity == models.SeverityWarning {
			warned = append(warned, f.Message)
		}
	}
	require.Len(t, warned, 2)
	assert.Contains(t, warned[0], "badName")
	assert.Contains(t, warned[1], "helper")
}

func TestValidateMissingActionFunction(t *testing.T) {
	intent := listIntent()
	intent.Actions = []models.Action{models.ActionSearch, models.ActionSave}

	_, result, err := Validate(goodScreenOutput, intent, "miplatform")
	require.NoError(t, err)

	require.True(t, result.HasErrors())
	found := false
	for _, f := range result.Findings {
		if f.Category == "naming" && f.Severity == models.SeverityError {
			found = true
			assert.Contains(t, f.Message, "fn_save")
		}
	}
	assert.True(t, found)
}

func TestValidateUnresolvedCrossReference(t *testing.T) {
	raw := `[SCREEN]
<Form id="x">
  <Dataset id="ds_list"/>
</Form>
[SCRIPT]
function fn_search() {
  ds_detail.clearData();
}
`
	_, result, err := Validate(raw, listIntent(), "miplatform")
	require.NoError(t, err)

	require.True(t, result.HasErrors())
	found := false
	for _, f := range result.Findings {
		if f.Category == "crossref" {
			found = true
			assert.Contains(t, f.Message, "ds_detail")
			assert.Contains(t, f.Message, "script")
			assert.Contains(t, f.Message, "screen")
		}
	}
	assert.True(t, found)
}

func TestValidateFabricationPolicy(t *testing.T) {
	raw := `[SCREEN]
<Form id="x"><Dataset id="ds_list"/></Form>
[SCRIPT]
function fn_search() {
  var url = "http://api.internal.example.com/customers";
  ds_list.load(url);
}
`
	_, result, err := Validate(raw, listIntent(), "miplatform")
	require.NoError(t, err)

	var fab []models.Finding
	for _, f := range result.Findings {
		if f.Category == "fabrication" {
			fab = append(fab, f)
		}
	}
	require.Len(t, fab, 1, "exactly one fabrication finding")
	assert.Equal(t, models.SeverityError, fab[0].Severity)
	assert.Equal(t, "script", fab[0].Slot)
}

func TestValidateMarkedEndpointAllowed(t *testing.T) {
	raw := `[SCREEN]
<Form id="x"><Dataset id="ds_list"/></Form>
[SCRIPT]
function fn_search() {
  // TODO-ENDPOINT: replace with the real service address
  var url = "http://localhost:8080/customers";
  ds_list.load(url);
}
`
	_, result, err := Validate(raw, listIntent(), "miplatform")
	require.NoError(t, err)

	for _, f := range result.Findings {
		assert.NotEqual(t, "fabrication", f.Category, "marked endpoints are allowed: %+v", f)
	}
}

func TestValidateSpringBoot(t *testing.T) {
	intent := &models.Intent{
		Name:    "customer_crud",
		Product: "springboot",
		Kind:    models.KindCrud,
		Fields:  []models.Field{{Name: "cust_id"}},
		Actions: []models.Action{models.ActionSearch, models.ActionSave},
	}

	raw := `[CONTROLLER]
public class CustomerController {
    public List<CustomerDto> list(CustomerDto cond) { return service.searchCustomers(cond); }
}
[SERVICE]
public class CustomerService {
    public List<CustomerDto> searchCustomers(CustomerDto cond) { return mapper.selectCustomerList(cond); }
    public int saveCustomer(CustomerDto dto) { return mapper.insertCustomer(dto); }
}
[DTO]
public class CustomerDto {
    private String custId;
}
[MAPPER_INTERFACE]
public interface CustomerMapper {
    List<CustomerDto> selectCustomerList(CustomerDto cond);
    int insertCustomer(CustomerDto dto);
}
[MAPPER_XML]
<mapper namespace="CustomerMapper">
  <select id="selectCustomerList">SELECT * FROM customer</select>
  <insert id="insertCustomer">INSERT INTO customer VALUES (#{custId})</insert>
</mapper>
`
	_, result, err := Validate(raw, intent, "springboot")
	require.NoError(t, err)
	assert.False(t, result.HasErrors(), "findings: %+v", result.Findings)
}

func TestValidateSpringBootUnresolvedMapperMethod(t *testing.T) {
	intent := &models.Intent{
		Name:    "customer_list",
		Product: "springboot",
		Kind:    models.KindList,
		Fields:  []models.Field{{Name: "cust_id"}},
		Actions: []models.Action{models.ActionSearch},
	}

	raw := `[CONTROLLER]
public class CustomerController {}
[SERVICE]
public class CustomerService {
    public List<CustomerDto> searchCustomers(CustomerDto cond) { return mapper.selectCustomerList(cond); }
}
[DTO]
public class CustomerDto {}
[MAPPER_INTERFACE]
public interface CustomerMapper {
    List<CustomerDto> selectCustomerList(CustomerDto cond);
}
[MAPPER_XML]
<mapper namespace="CustomerMapper">
  <select id="selectSomethingElse">SELECT 1</select>
</mapper>
`
	_, result, err := Validate(raw, intent, "springboot")
	require.NoError(t, err)

	found := false
	for _, f := range result.Findings {
		if f.Category == "crossref" && strings.Contains(f.Message, "selectCustomerList") {
			found = true
		}
	}
	assert.True(t, found, "findings: %+v", result.Findings)
}

func TestValidateUnknownProduct(t *testing.T) {
	_, _, err := Validate("x", listIntent(), "appliance")
	require.Error(t, err)
}
