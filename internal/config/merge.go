package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

var errNotObject = errors.New("expected an object")

type object map[string]json.RawMessage

// mergeLayer applies one configuration layer, given as a JSON document, onto
// dst. Only fields declared by the Config schema are considered: nested
// objects merge key by key, scalars and arrays replace the previous value and
// an explicit null resets a field to its zero value. Keys absent from the
// layer leave dst untouched.
//
// The returned error is non-nil when the document is not a JSON object, in
// which case dst is not modified. Field-level problems are returned in
// skipped; those fields keep their previous value and the rest of the layer
// still applies.
func mergeLayer(dst *Config, data []byte) (skipped []error, err error) {
	var root object
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errNotObject
	}
	m := &merger{}
	m.config(dst, root)
	return m.errs, nil
}

type merger struct {
	errs []error
}

func (m *merger) fail(path string, err error) {
	m.errs = append(m.errs, fmt.Errorf("%s: %w", path, err))
}

func (m *merger) config(dst *Config, obj object) {
	for _, key := range sortedKeys(obj) {
		raw := obj[key]
		switch key {
		case "theme":
			assign(m, key, &dst.Theme, raw)
		case "display":
			m.nested(key, raw, func() { dst.Display = DisplayConfig{} }, func(o object) {
				m.display(&dst.Display, o)
			})
		case "colors":
			m.nested(key, raw, func() { dst.Colors = ColorsConfig{} }, func(o object) {
				m.colors(&dst.Colors, o)
			})
		case "budget":
			m.nested(key, raw, func() { dst.Budget = BudgetConfig{} }, func(o object) {
				m.budget(&dst.Budget, o)
			})
		case "modelContextLimits":
			m.nested(key, raw, func() { dst.ModelContextLimits = nil }, func(o object) {
				m.contextLimits(&dst.ModelContextLimits, o)
			})
		}
	}
}

func (m *merger) display(dst *DisplayConfig, obj object) {
	for _, key := range sortedKeys(obj) {
		raw, path := obj[key], "display."+key
		switch key {
		case "lines":
			assign(m, path, &dst.Lines, raw)
		case "style":
			assign(m, path, &dst.Style, raw)
		case "charset":
			assign(m, path, &dst.Charset, raw)
		case "colorCompatibility":
			assign(m, path, &dst.ColorCompatibility, raw)
		case "autoWrap":
			assign(m, path, &dst.AutoWrap, raw)
		case "padding":
			assign(m, path, &dst.Padding, raw)
		}
	}
}

func (m *merger) colors(dst *ColorsConfig, obj object) {
	raw, ok := obj["custom"]
	if !ok {
		return
	}
	m.nested("colors.custom", raw, func() { dst.Custom = nil }, func(o object) {
		if dst.Custom == nil {
			dst.Custom = make(map[string]SegmentColor, len(o))
		}
		for _, name := range sortedKeys(o) {
			path := "colors.custom." + name
			m.nested(path, o[name], func() { delete(dst.Custom, name) }, func(fields object) {
				color := dst.Custom[name]
				if v, ok := fields["bg"]; ok {
					assign(m, path+".bg", &color.Bg, v)
				}
				if v, ok := fields["fg"]; ok {
					assign(m, path+".fg", &color.Fg, v)
				}
				dst.Custom[name] = color
			})
		}
	})
}

func (m *merger) budget(dst *BudgetConfig, obj object) {
	items := map[string]**BudgetItem{
		"session": &dst.Session,
		"today":   &dst.Today,
		"block":   &dst.Block,
	}
	for _, key := range sortedKeys(obj) {
		slot, ok := items[key]
		if !ok {
			continue
		}
		path := "budget." + key
		m.nested(path, obj[key], func() { *slot = nil }, func(fields object) {
			item := BudgetItem{}
			if *slot != nil {
				item = **slot
			}
			for _, field := range sortedKeys(fields) {
				raw := fields[field]
				switch field {
				case "amount":
					assign(m, path+".amount", &item.Amount, raw)
				case "warningThreshold":
					assign(m, path+".warningThreshold", &item.WarningThreshold, raw)
				case "type":
					assign(m, path+".type", &item.Type, raw)
				}
			}
			*slot = &item
		})
	}
}

func (m *merger) contextLimits(dst *map[string]int, obj object) {
	if *dst == nil {
		*dst = make(map[string]int, len(obj))
	}
	for _, name := range sortedKeys(obj) {
		raw := obj[name]
		if isNull(raw) {
			delete(*dst, name)
			continue
		}
		var limit int
		if err := json.Unmarshal(raw, &limit); err != nil {
			m.fail("modelContextLimits."+name, err)
			continue
		}
		(*dst)[name] = limit
	}
}

// nested merges raw into a schema object field. reset handles an explicit
// null; anything other than an object is reported and skipped.
func (m *merger) nested(path string, raw json.RawMessage, reset func(), merge func(object)) {
	if isNull(raw) {
		reset()
		return
	}
	var obj object
	if err := json.Unmarshal(raw, &obj); err != nil {
		m.fail(path, errNotObject)
		return
	}
	merge(obj)
}

// assign replaces *dst with the decoded value of raw.
func assign[T any](m *merger, path string, dst *T, raw json.RawMessage) {
	if isNull(raw) {
		var zero T
		*dst = zero
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		m.fail(path, err)
		return
	}
	*dst = v
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func sortedKeys(obj object) []string {
	return slices.Sorted(maps.Keys(obj))
}
