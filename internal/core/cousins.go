package core

import "strings"

// CousinProfile is a recognized counterparty and the spellings the
// extraction step normalizes to the main name.
type CousinProfile struct {
	Name    string
	Aliases []string
}

// Cousins is the fixed counterparty roster.
var Cousins = []CousinProfile{
	{Name: "Pablo", Aliases: []string{"pablo", "pablito"}},
	{Name: "Camila", Aliases: []string{"camila", "cami"}},
	{Name: "Marie", Aliases: []string{"marie", "marielena", "mari"}},
	{Name: "Marian", Aliases: []string{"marian", "mariam"}},
	{Name: "Rorro", Aliases: []string{"rorro", "rodrigo", "rodri"}},
	{Name: "Martín", Aliases: []string{"martín", "martin", "tincho"}},
	{Name: "Carolina", Aliases: []string{"carolina", "carol", "caro"}},
	{Name: "Tony", Aliases: []string{"tony", "antonio"}},
	{Name: "Joaquín", Aliases: []string{"joaquín", "joaquin", "joaco"}},
	{Name: "Mica", Aliases: []string{"mica", "micaela", "miqui", "miki"}},
	{Name: "Nico", Aliases: []string{"nico", "nicolás", "nicolas"}},
	{Name: "Pauli", Aliases: []string{"pauli", "paula", "paulita", "pau"}},
}

// NormalizeCousin maps a name or alias to the roster's main name. The
// second return is false when the name is not on the roster; callers keep
// the original spelling in that case.
func NormalizeCousin(name string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}
	for _, c := range Cousins {
		if strings.EqualFold(c.Name, needle) {
			return c.Name, true
		}
		for _, a := range c.Aliases {
			if a == needle {
				return c.Name, true
			}
		}
	}
	return "", false
}

// CounterpartyNames collects every distinct counterparty appearing in
// PaidBy across the collection, merged with the roster, sorted by first
// appearance after the roster order. Reserved identities are excluded.
func CounterpartyNames(txs []Transaction) []string {
	seen := make(map[string]struct{}, len(Cousins))
	out := make([]string, 0, len(Cousins))
	for _, c := range Cousins {
		seen[strings.ToLower(c.Name)] = struct{}{}
		out = append(out, c.Name)
	}
	for _, t := range txs {
		name := strings.TrimSpace(t.PaidBy)
		if name == "" || ClassifyPayer(name).IsReserved() {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}
