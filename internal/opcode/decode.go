package opcode

import (
	"fmt"

	"github.com/magladko/jpamb-sub000/internal/jvm"
	"github.com/tidwall/gjson"
)

// DecodeMethod decodes a full per-method opcode array: a JSON array where
// each element tags its variant with an "opr" field (spec.md §6). Unknown
// fields are tolerated; unknown "opr" tags are rejected as invalid input.
func DecodeMethod(raw []byte) ([]Opcode, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("invalid input: malformed opcode JSON")
	}
	arr := gjson.ParseBytes(raw)
	if !arr.IsArray() {
		return nil, fmt.Errorf("invalid input: opcode JSON is not an array")
	}
	results := arr.Array()
	out := make([]Opcode, 0, len(results))
	for _, elem := range results {
		op, err := decodeOne(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, nil
}

func decodeOne(j gjson.Result) (Opcode, error) {
	offset := int(j.Get("offset").Int())
	lineField := j.Get("line")
	if !lineField.Exists() {
		lineField = j.Get("lineno")
	}
	b := base{offset: offset, line: int(lineField.Int())}
	tag := j.Get("opr").String()
	switch tag {
	case "push":
		v, err := decodeValue(j.Get("value"))
		if err != nil {
			return nil, err
		}
		return Push{base: b, Value: v}, nil
	case "load":
		t, err := decodeTypeField(j.Get("type"))
		if err != nil {
			return nil, err
		}
		return Load{base: b, Type: t, Index: int(j.Get("index").Int())}, nil
	case "store":
		t, err := decodeTypeField(j.Get("type"))
		if err != nil {
			return nil, err
		}
		return Store{base: b, Type: t, Index: int(j.Get("index").Int())}, nil
	case "dup":
		words := int(j.Get("words").Int())
		if words == 0 {
			words = 1
		}
		return Dup{base: b, Words: words}, nil
	case "binary":
		t, err := decodeTypeField(j.Get("type"))
		if err != nil {
			return nil, err
		}
		opField := j.Get("operant")
		if !opField.Exists() {
			opField = j.Get("operator")
		}
		return Binary{base: b, Type: t, Op: BinOp(opField.String())}, nil
	case "cast":
		from, err := decodeTypeField(j.Get("from"))
		if err != nil {
			return nil, err
		}
		to, err := decodeTypeField(j.Get("to"))
		if err != nil {
			return nil, err
		}
		return Cast{base: b, From: from, To: to}, nil
	case "incr":
		return Incr{base: b, Index: int(j.Get("index").Int()), Amount: int(j.Get("amount").Int())}, nil
	case "ifz":
		return Ifz{base: b, Cond: Cond(j.Get("condition").String()), Target: int(j.Get("target").Int())}, nil
	case "if":
		return If{base: b, Cond: Cond(j.Get("condition").String()), Target: int(j.Get("target").Int())}, nil
	case "goto":
		return Goto{base: b, Target: int(j.Get("target").Int())}, nil
	case "return":
		tf := j.Get("type")
		if !tf.Exists() || tf.String() == "" {
			return Return{base: b}, nil
		}
		t, err := decodeTypeField(tf)
		if err != nil {
			return nil, err
		}
		return Return{base: b, Type: &t}, nil
	case "new":
		return New{base: b, Class: jvm.ClassName(j.Get("class").String())}, nil
	case "newarray":
		t, err := decodeTypeField(j.Get("type"))
		if err != nil {
			return nil, err
		}
		dim := int(j.Get("dim").Int())
		if dim == 0 {
			dim = 1
		}
		return NewArray{base: b, Type: t, Dim: dim}, nil
	case "arraystore":
		t, err := decodeTypeField(j.Get("type"))
		if err != nil {
			return nil, err
		}
		return ArrayStore{base: b, Type: t}, nil
	case "arrayload":
		t, err := decodeTypeField(j.Get("type"))
		if err != nil {
			return nil, err
		}
		return ArrayLoad{base: b, Type: t}, nil
	case "arraylength":
		return ArrayLength{base: b}, nil
	case "throw":
		return Throw{base: b}, nil
	case "get":
		field, err := decodeAbsField(j.Get("field"))
		if err != nil {
			return nil, err
		}
		return Get{base: b, Static: j.Get("static").Bool(), Field: field}, nil
	case "invoke":
		method, err := decodeAbsMethod(j.Get("method"))
		if err != nil {
			return nil, err
		}
		access := j.Get("access")
		kind := InvokeKind(access.String())
		if !access.Exists() {
			kind = InvokeKind(j.Get("kind").String())
		}
		return Invoke{base: b, Kind: kind, Method: method, StackSize: int(j.Get("stack_size").Int())}, nil
	default:
		return nil, fmt.Errorf("invalid input: unknown opcode tag %q at offset %d", tag, offset)
	}
}

func decodeTypeField(j gjson.Result) (jvm.Type, error) {
	s := j.String()
	switch s {
	case "boolean":
		return jvm.TBoolean(), nil
	case "byte":
		return jvm.TByte(), nil
	case "short":
		return jvm.TShort(), nil
	case "char":
		return jvm.TChar(), nil
	case "int":
		return jvm.TInt(), nil
	case "long":
		return jvm.TLong(), nil
	case "float":
		return jvm.TFloat(), nil
	case "double":
		return jvm.TDouble(), nil
	case "ref", "reference":
		return jvm.TReference(), nil
	case "":
		return jvm.Type{}, fmt.Errorf("invalid input: missing type field")
	default:
		// Fall back to full descriptor-grammar decode for array/object types
		// ("[I", "Ljava/lang/Object;") that arrive already JVM-descriptor-encoded.
		return jvm.DecodeTypeFull(s)
	}
}

func decodeValue(j gjson.Result) (jvm.Value, error) {
	t, err := decodeTypeField(j.Get("type"))
	if err != nil {
		return jvm.Value{}, err
	}
	switch t.Kind {
	case jvm.Float, jvm.Double:
		return jvm.Value{Type: t, F: j.Get("value").Float()}, nil
	case jvm.Boolean:
		return jvm.Bool(j.Get("value").Bool()), nil
	default:
		return jvm.Value{Type: t, I: j.Get("value").Int()}, nil
	}
}

func decodeAbsField(j gjson.Result) (jvm.AbsFieldID, error) {
	class := jvm.ClassName(j.Get("class").String())
	t, err := decodeTypeField(j.Get("type"))
	if err != nil {
		return jvm.AbsFieldID{}, err
	}
	return jvm.AbsFieldID{Class: class, Field: jvm.FieldID{Name: j.Get("name").String(), Type: t}}, nil
}

func decodeAbsMethod(j gjson.Result) (jvm.AbsMethodID, error) {
	ref := j.Get("ref")
	if ref.Exists() {
		return jvm.DecodeAbsMethodID(ref.String())
	}
	class := jvm.ClassName(j.Get("class").String())
	name := j.Get("name").String()
	var params []jvm.Type
	for _, p := range j.Get("args").Array() {
		t, err := decodeTypeField(p)
		if err != nil {
			return jvm.AbsMethodID{}, err
		}
		params = append(params, t)
	}
	var returns *jvm.Type
	if rf := j.Get("returns"); rf.Exists() && rf.String() != "" && rf.String() != "void" {
		t, err := decodeTypeField(rf)
		if err != nil {
			return jvm.AbsMethodID{}, err
		}
		returns = &t
	}
	return jvm.AbsMethodID{Class: class, Method: jvm.MethodID{Name: name, Params: jvm.NewParamList(params...), Returns: returns}}, nil
}
