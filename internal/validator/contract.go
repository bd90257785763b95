package validator

import (
	"fmt"

	"github.com/screenforge/screenforge/internal/models"
)

// SlotKind decides which structural checks apply to a slot.
type SlotKind int

const (
	SlotMarkup SlotKind = iota
	SlotCode
)

func (k SlotKind) String() string {
	if k == SlotMarkup {
		return "markup"
	}
	return "code"
}

// SlotSpec declares one artifact slot of a product: its section marker in
// the raw model output and whether the slot may be absent.
type SlotSpec struct {
	Name     string
	Marker   string
	Kind     SlotKind
	Required bool
}

// ActionFunc names the function prefix a requested action implies in a
// given code slot.
type ActionFunc struct {
	Action models.Action
	Slot   string
	Prefix string
}

// Contract is the closed validation contract of one product. Products are
// a fixed, enumerable set; there is no registration API.
type Contract struct {
	Product     string
	Slots       []SlotSpec
	ActionFuncs []ActionFunc

	// identifier prefix conventions per markup element name
	MarkupPrefixes map[string]string

	// accepted function-name prefixes per code slot; empty means any
	CodePrefixes map[string][]string

	// script identifier patterns that must resolve to markup declarations
	CrossRefSlot   string // slot whose references are checked
	CrossRefTarget string // slot that must declare them
}

var contracts = map[string]*Contract{
	"miplatform": {
		Product: "miplatform",
		Slots: []SlotSpec{
			{Name: "screen", Marker: "[SCREEN]", Kind: SlotMarkup, Required: true},
			{Name: "script", Marker: "[SCRIPT]", Kind: SlotCode, Required: true},
		},
		ActionFuncs: []ActionFunc{
			{Action: models.ActionSearch, Slot: "script", Prefix: "fn_search"},
			{Action: models.ActionSave, Slot: "script", Prefix: "fn_save"},
			{Action: models.ActionDelete, Slot: "script", Prefix: "fn_delete"},
			{Action: models.ActionAdd, Slot: "script", Prefix: "fn_add"},
		},
		MarkupPrefixes: map[string]string{
			"Dataset": "ds_",
			"Grid":    "grd_",
			"Div":     "div_",
		},
		CodePrefixes: map[string][]string{
			"script": {"fn_", "ev_"},
		},
		CrossRefSlot:   "script",
		CrossRefTarget: "screen",
	},
	"springboot": {
		Product: "springboot",
		Slots: []SlotSpec{
			{Name: "controller", Marker: "[CONTROLLER]", Kind: SlotCode, Required: true},
			{Name: "service", Marker: "[SERVICE]", Kind: SlotCode, Required: true},
			{Name: "dto", Marker: "[DTO]", Kind: SlotCode, Required: true},
			{Name: "mapper_interface", Marker: "[MAPPER_INTERFACE]", Kind: SlotCode, Required: true},
			{Name: "mapper_xml", Marker: "[MAPPER_XML]", Kind: SlotMarkup, Required: true},
		},
		ActionFuncs: []ActionFunc{
			{Action: models.ActionSearch, Slot: "service", Prefix: "search"},
			{Action: models.ActionSave, Slot: "service", Prefix: "save"},
			{Action: models.ActionDelete, Slot: "service", Prefix: "delete"},
			{Action: models.ActionAdd, Slot: "service", Prefix: "create"},
		},
		CrossRefSlot:   "mapper_interface",
		CrossRefTarget: "mapper_xml",
	},
}

// ContractFor returns the validation contract of a product.
func ContractFor(product string) (*Contract, error) {
	c, ok := contracts[product]
	if !ok {
		return nil, fmt.Errorf("unknown product %q", product)
	}
	return c, nil
}

// Products lists the supported product identifiers.
func Products() []string {
	return []string{"miplatform", "springboot"}
}

func (c *Contract) slot(name string) *SlotSpec {
	for i := range c.Slots {
		if c.Slots[i].Name == name {
			return &c.Slots[i]
		}
	}
	return nil
}
