package domain

// CoalesceStr returns the first non-empty value. Nullable text columns
// arrive as "" and fall back to their sentinel through it.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// IntOr dereferences p, or returns def for a NULL column.
func IntOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func IntPtr(v int) *int       { return &v }
func StrPtr(v string) *string { return &v }
