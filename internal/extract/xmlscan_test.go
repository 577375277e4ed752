package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const partnerViewXML = `<?xml version="1.0" encoding="utf-8"?>
<odoo>
    <data>
        <record id="view_partner_form" model="ir.ui.view">
            <field name="name">res.partner.form</field>
            <field name="model">res.partner</field>
            <field name="arch" type="xml">
                <form><field name="name"/></form>
            </field>
        </record>
    </data>
</odoo>
`

func set(names ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func TestHasMatchingRecord_Match(t *testing.T) {
	t.Parallel()
	ok, err := hasMatchingRecord([]byte(partnerViewXML), "ir.ui.view", set("res.partner"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasMatchingRecord_WrongModel(t *testing.T) {
	t.Parallel()
	ok, err := hasMatchingRecord([]byte(partnerViewXML), "ir.ui.view", set("sale.order"))
	require.NoError(t, err)
	assert.False(t, ok)

	// Right field value but wrong record type.
	ok, err = hasMatchingRecord([]byte(partnerViewXML), "ir.actions.report", set("res.partner"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasMatchingRecord_FieldOutsideRecordIgnored(t *testing.T) {
	t.Parallel()
	src := `<odoo><field name="model">res.partner</field></odoo>`
	ok, err := hasMatchingRecord([]byte(src), "ir.ui.view", set("res.partner"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasMatchingRecord_MalformedXML(t *testing.T) {
	t.Parallel()
	_, err := hasMatchingRecord([]byte(`<odoo><record`), "ir.ui.view", set("x"))
	assert.Error(t, err)
}

func TestHasMatchingTemplate(t *testing.T) {
	t.Parallel()
	src := `<odoo>
    <template id="cart" name="Shopping Cart">
        <t t-call="website.layout"/>
    </template>
</odoo>`

	ok, err := hasMatchingTemplate([]byte(src), set("cart"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasMatchingTemplate([]byte(src), set("checkout"))
	require.NoError(t, err)
	assert.False(t, ok)
}
