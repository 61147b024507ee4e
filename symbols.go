package main

// environ is the flat variable namespace. Names are numbered in order of
// their first definition, so that they may be listed deterministically;
// redefining a name replaces its value in place.
type environ struct {
	names  []string
	ids    map[string]int
	values []Value
}

func (env environ) lookup(name string) (Value, bool) {
	if id, defined := env.ids[name]; defined {
		return env.values[id], true
	}
	return nil, false
}

func (env *environ) define(name string, val Value) {
	id, defined := env.ids[name]
	if !defined {
		if env.ids == nil {
			env.ids = make(map[string]int)
		}
		id = len(env.names)
		env.names = append(env.names, name)
		env.values = append(env.values, nil)
		env.ids[name] = id
	}
	env.values[id] = val
}

func (env environ) each(fn func(name string, val Value)) {
	for id, name := range env.names {
		fn(name, env.values[id])
	}
}
