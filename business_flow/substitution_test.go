package businessflow

import (
	"testing"
	"time"

	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVariableContext() *VariableContext {
	photographer := &models.Photographer{
		FirstName:    "Marie",
		LastName:     "Dupont",
		Email:        "marie@studio-lumiere.fr",
		BusinessName: utils.ToPtr("Studio Lumière"),
	}
	client := &models.Client{
		FirstName: "Julie",
		LastName:  "Martin",
		Email:     utils.ToPtr("julie@example.com"),
	}
	eventDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	link := &models.ClientLink{EventDate: &eventDate}
	eventType := &models.EventType{Name: "wedding", Label: "Mariage"}

	customVars := []*models.CustomVariable{
		{Key: "deposit_amount", Value: "500 €"},
		{Key: "delivery_delay", Value: "6 semaines"},
	}
	responses := map[string]string{
		"ceremony_venue": "Château de Vincennes",
	}

	return NewVariableContext(photographer, client, link, eventType, customVars, responses)
}

func TestSubstitute(t *testing.T) {
	vars := testVariableContext()

	t.Run("resolves built-ins, custom variables, and answers", func(t *testing.T) {
		template := "Contrat entre {{photographer_name}} et {{client_name}} le {{event_date}} à {{ceremony_venue}}. Acompte : {{deposit_amount}}."

		result, unresolved := Substitute(template, vars)

		assert.Empty(t, unresolved)
		assert.Equal(t, "Contrat entre Studio Lumière et Julie Martin le 20/06/2026 à Château de Vincennes. Acompte : 500 €.", result)
	})

	t.Run("business name falls back to legal name", func(t *testing.T) {
		photographer := &models.Photographer{FirstName: "Marie", LastName: "Dupont", Email: "m@example.com"}
		bare := NewVariableContext(photographer, nil, nil, nil, nil, nil)

		result, unresolved := Substitute("{{photographer_name}}", bare)

		assert.Empty(t, unresolved)
		assert.Equal(t, "Marie Dupont", result)
	})

	t.Run("unresolved placeholders are kept in the output", func(t *testing.T) {
		template := "Le forfait {{package_name}} comprend {{hours}} heures pour {{client_name}}."

		result, unresolved := Substitute(template, vars)

		assert.Equal(t, []string{"hours", "package_name"}, unresolved)
		assert.Contains(t, result, "{{package_name}}")
		assert.Contains(t, result, "{{hours}}")
		assert.Contains(t, result, "Julie Martin")
	})

	t.Run("repeated unresolved keys reported once", func(t *testing.T) {
		_, unresolved := Substitute("{{missing}} and {{missing}} again", vars)

		assert.Equal(t, []string{"missing"}, unresolved)
	})

	t.Run("whitespace inside braces is tolerated", func(t *testing.T) {
		result, unresolved := Substitute("{{ client_name }}", vars)

		assert.Empty(t, unresolved)
		assert.Equal(t, "Julie Martin", result)
	})

	t.Run("questionnaire answer overrides a custom variable", func(t *testing.T) {
		customVars := []*models.CustomVariable{{Key: "ceremony_venue", Value: "valeur par défaut"}}
		responses := map[string]string{"ceremony_venue": "Mairie du 11e"}
		ctx := NewVariableContext(nil, nil, nil, nil, customVars, responses)

		result, _ := Substitute("{{ceremony_venue}}", ctx)

		assert.Equal(t, "Mairie du 11e", result)
	})

	t.Run("empty answer does not shadow a custom variable", func(t *testing.T) {
		customVars := []*models.CustomVariable{{Key: "ceremony_venue", Value: "valeur par défaut"}}
		responses := map[string]string{"ceremony_venue": ""}
		ctx := NewVariableContext(nil, nil, nil, nil, customVars, responses)

		result, _ := Substitute("{{ceremony_venue}}", ctx)

		assert.Equal(t, "valeur par défaut", result)
	})
}

func TestExtractPlaceholders(t *testing.T) {
	template := "{{client_name}} signe avec {{photographer_name}}; rappel pour {{client_name}} le {{event_date}}"

	keys := ExtractPlaceholders(template)

	assert.Equal(t, []string{"client_name", "photographer_name", "event_date"}, keys)
}

func TestVariableContextKeys(t *testing.T) {
	vars := testVariableContext()
	keys := vars.Keys()

	require.NotEmpty(t, keys)
	assert.Contains(t, keys, "client_name")
	assert.Contains(t, keys, "deposit_amount")
	assert.Contains(t, keys, "ceremony_venue")
	assert.Contains(t, keys, "current_date")

	// Sorted output
	for i := 1; i < len(keys); i++ {
		assert.LessOrEqual(t, keys[i-1], keys[i])
	}
}

func TestFormatEventDate(t *testing.T) {
	assert.Equal(t, "", FormatEventDate(nil))

	d := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "02/01/2026", FormatEventDate(&d))
}
