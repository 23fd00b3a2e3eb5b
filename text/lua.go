package text

// ToLuaFormat converts a line to a Lua-friendly map
func (l Line) ToLuaFormat() map[string]any {
	return map[string]any{
		"number":  l.Number,
		"content": l.Content,
		"type":    l.Kind.String(),
	}
}

// ToLuaFormat converts a group to a Lua-friendly map. Empty ranges are omitted.
func (g *ConnectorGroup) ToLuaFormat() map[string]any {
	luaFormat := map[string]any{
		"type":        g.Kind.String(),
		"count":       len(g.Items),
		"leftAnchor":  g.LeftAnchor,
		"rightAnchor": g.RightAnchor,
		"replace":     g.Replace,
	}
	if !g.Left.Empty() {
		luaFormat["leftStart"] = g.Left.Min
		luaFormat["leftEnd"] = g.Left.Max
	}
	if !g.Right.Empty() {
		luaFormat["rightStart"] = g.Right.Min
		luaFormat["rightEnd"] = g.Right.Max
	}
	return luaFormat
}

// ToLuaFormat converts the alignment and its grouped connectors to a Lua-friendly map.
// Additional fields can be passed as key-value pairs: ToLuaFormat(groups, "name", "main.go")
func (a *Alignment) ToLuaFormat(groups []*ConnectorGroup, additionalFields ...any) map[string]any {
	left := make([]map[string]any, len(a.Left))
	for i, l := range a.Left {
		left[i] = l.ToLuaFormat()
	}
	right := make([]map[string]any, len(a.Right))
	for i, l := range a.Right {
		right[i] = l.ToLuaFormat()
	}
	luaGroups := make([]map[string]any, len(groups))
	for i, g := range groups {
		luaGroups[i] = g.ToLuaFormat()
	}

	luaFormat := map[string]any{
		"left":   left,
		"right":  right,
		"groups": luaGroups,
		"stats": map[string]any{
			"added":     a.Stats.Added,
			"removed":   a.Stats.Removed,
			"unchanged": a.Stats.Unchanged,
		},
		"noDifferences": a.NoDifferences(),
	}

	for i := 0; i < len(additionalFields)-1; i += 2 {
		if key, ok := additionalFields[i].(string); ok {
			luaFormat[key] = additionalFields[i+1]
		}
	}

	return luaFormat
}
