package feed

type ValueKind int

const (
	KindString ValueKind = iota
	KindList
	KindMap
)

// Value is the payload of a custom field or an extension member: a string,
// an ordered list of strings, or a nested mapping.
type Value struct {
	kind   ValueKind
	str    string
	list   []string
	fields Fields
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

func ListValue(items ...string) Value {
	return Value{kind: KindList, list: items}
}

func MapValue(fields Fields) Value {
	return Value{kind: KindMap, fields: fields}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) String() string {
	return v.str
}

func (v Value) List() []string {
	return v.list
}

func (v Value) Map() Fields {
	return v.fields
}

// IsEmpty reports whether renderers should skip the value.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindList:
		return len(v.list) == 0
	case KindMap:
		return v.fields.Len() == 0
	default:
		return v.str == ""
	}
}

type Field struct {
	Name  string
	Value Value
}

// Fields is an insertion-ordered name/value mapping. Setting an existing name
// replaces its value in place.
type Fields struct {
	entries []Field
}

func NewFields(entries ...Field) Fields {
	var f Fields
	for _, e := range entries {
		f.Set(e.Name, e.Value)
	}
	return f
}

func (f *Fields) Set(name string, value Value) {
	for i := range f.entries {
		if f.entries[i].Name == name {
			f.entries[i].Value = value
			return
		}
	}
	f.entries = append(f.entries, Field{Name: name, Value: value})
}

func (f Fields) Get(name string) (Value, bool) {
	for _, e := range f.entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return Value{}, false
}

func (f Fields) Len() int {
	return len(f.entries)
}

// All returns the entries in insertion order.
func (f Fields) All() []Field {
	return f.entries
}
