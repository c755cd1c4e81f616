package component

// AnimParams collects named animation parameters for the animation layer.
// Triggers are one-shot names set since the last Consume.
type AnimParams struct {
	Values   map[string]any
	Triggers []string
}

func (a *AnimParams) Set(name string, value any) {
	if a == nil {
		return
	}
	if a.Values == nil {
		a.Values = make(map[string]any)
	}
	a.Values[name] = value
}

// Trigger sets a bool parameter and records it as fired this tick.
func (a *AnimParams) Trigger(name string) {
	if a == nil {
		return
	}
	a.Set(name, true)
	a.Triggers = append(a.Triggers, name)
}

func (a *AnimParams) Int(name string) (int, bool) {
	if a == nil {
		return 0, false
	}
	v, ok := a.Values[name].(int)
	return v, ok
}

func (a *AnimParams) Float(name string) (float64, bool) {
	if a == nil {
		return 0, false
	}
	v, ok := a.Values[name].(float64)
	return v, ok
}

// Consume returns and clears the fired triggers.
func (a *AnimParams) Consume() []string {
	if a == nil {
		return nil
	}
	out := a.Triggers
	a.Triggers = nil
	for _, name := range out {
		a.Values[name] = false
	}
	return out
}

var AnimParamsComponent = NewComponent[AnimParams]()
