package businessflow

import (
	"regexp"
	"sort"
	"time"

	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/utils"
)

// Built-in variable keys available in every template
const (
	VarClientName        = "client_name"
	VarClientFirstName   = "client_first_name"
	VarClientLastName    = "client_last_name"
	VarClientEmail       = "client_email"
	VarClientPhone       = "client_phone"
	VarClientAddress     = "client_address"
	VarPhotographerName  = "photographer_name"
	VarPhotographerEmail = "photographer_email"
	VarPhotographerPhone = "photographer_phone"
	VarBusinessName      = "business_name"
	VarSiretNumber       = "siret_number"
	VarEventType         = "event_type"
	VarEventDate         = "event_date"
	VarCurrentDate       = "current_date"
)

// placeholderPattern matches {{key}} with optional inner whitespace
var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// dateLayout is how date variables render in contracts (French convention)
const dateLayout = "02/01/2006"

// VariableContext is the resolved set of variables for one link. Precedence
// when keys collide: questionnaire responses over custom variables over
// built-ins, so an answered question always wins.
type VariableContext struct {
	values map[string]string
}

// NewVariableContext builds the variable set from the entities around a link.
// Any of the pointers may be nil; missing sources just contribute nothing.
func NewVariableContext(photographer *models.Photographer, client *models.Client, link *models.ClientLink, eventType *models.EventType, customVars []*models.CustomVariable, responses map[string]string) *VariableContext {
	values := make(map[string]string)

	values[VarCurrentDate] = utils.UTCNow().Format(dateLayout)

	if photographer != nil {
		values[VarPhotographerName] = photographer.DisplayName()
		values[VarPhotographerEmail] = photographer.Email
		if photographer.Phone != nil {
			values[VarPhotographerPhone] = *photographer.Phone
		}
		if photographer.BusinessName != nil {
			values[VarBusinessName] = *photographer.BusinessName
		}
		if photographer.SiretNumber != nil {
			values[VarSiretNumber] = *photographer.SiretNumber
		}
	}

	if client != nil {
		values[VarClientName] = client.FullName()
		values[VarClientFirstName] = client.FirstName
		values[VarClientLastName] = client.LastName
		if client.Email != nil {
			values[VarClientEmail] = *client.Email
		}
		if client.Phone != nil {
			values[VarClientPhone] = *client.Phone
		}
		if client.Address != nil {
			values[VarClientAddress] = *client.Address
		}
	}

	if eventType != nil {
		values[VarEventType] = eventType.Label
	}
	if link != nil && link.EventDate != nil {
		values[VarEventDate] = link.EventDate.Format(dateLayout)
	}

	for _, v := range customVars {
		values[v.Key] = v.Value
	}

	for k, v := range responses {
		if v != "" {
			values[k] = v
		}
	}

	return &VariableContext{values: values}
}

// Lookup returns the value for a key and whether it resolved
func (c *VariableContext) Lookup(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Keys returns all resolvable variable keys, sorted
func (c *VariableContext) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Substitute replaces every {{key}} in the template with its resolved value.
// Placeholders without a value are left untouched in the output and returned
// so the photographer can see what is missing before validating.
func Substitute(template string, vars *VariableContext) (string, []string) {
	seen := make(map[string]bool)
	var unresolved []string

	result := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		if val, ok := vars.Lookup(key); ok {
			return val
		}
		if !seen[key] {
			seen[key] = true
			unresolved = append(unresolved, key)
		}
		return match
	})

	sort.Strings(unresolved)
	return result, unresolved
}

// ExtractPlaceholders lists the distinct variable keys a template references,
// in order of first appearance.
func ExtractPlaceholders(template string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}

// FormatEventDate renders an optional event date the way templates do
func FormatEventDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
