package service

import "strings"

// sortDirection returns "ASC"/"DESC", falling back to def for anything else
func sortDirection(order, def string) string {
	switch strings.ToLower(order) {
	case "asc":
		return "ASC"
	case "desc":
		return "DESC"
	}
	return def
}

// orderColumn maps a client sort key to a whitelisted column, fallback otherwise
func orderColumn(sortBy string, whitelist map[string]string, fallback string) string {
	if col, ok := whitelist[sortBy]; ok {
		return col
	}
	return fallback
}
