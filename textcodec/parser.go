package textcodec

import (
	"strconv"
	"strings"

	"github.com/RitoShark/ritobin-go/bperr"
	"github.com/RitoShark/ritobin-go/digest"
	"github.com/RitoShark/ritobin-go/model"
)

type typeArgs struct {
	elem    model.Type
	key     model.Type
	val     model.Type
	hasArgs bool
}

type parser struct {
	lex *lexer
	tok token
}

func newParser(s string) (*parser, error) {
	p := &parser{lex: newLexer(s)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if p.tok.kind != k {
		return token{}, bperr.NewParseError(p.tok.pos, "expected "+what)
	}
	t := p.tok
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return t, nil
}

// ReadText parses a PTXT document. The input must begin with the
// "#PROP_text" header; leading whitespace before it is tolerated.
func ReadText(s string) (*model.Document, error) {
	if !strings.HasPrefix(strings.TrimLeft(s, " \t\r\n"), "#PROP_text") {
		return nil, bperr.NewParseError(0, "expected #PROP_text header")
	}

	p, err := newParser(s)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{}
	for p.tok.kind != tokEOF {
		name, err := p.parseSectionName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokColon, "':'"); err != nil {
			return nil, err
		}
		typ, args, err := p.parseTypeWithArgs()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokEquals, "'='"); err != nil {
			return nil, err
		}
		val, err := p.parseValue(typ, args)
		if err != nil {
			return nil, err
		}
		doc.Set(name, val)
	}
	return doc, nil
}

func (p *parser) parseSectionName() (string, error) {
	switch p.tok.kind {
	case tokIdent, tokString:
		name := p.tok.text
		if err := p.advance(); err != nil {
			return "", err
		}
		return name, nil
	default:
		return "", bperr.NewParseError(p.tok.pos, "expected section name")
	}
}

func (p *parser) parseType() (model.Type, error) {
	if p.tok.kind != tokIdent {
		return 0, bperr.NewParseError(p.tok.pos, "expected type name")
	}
	name := p.tok.text
	pos := p.tok.pos
	if err := p.advance(); err != nil {
		return 0, err
	}
	t, ok := model.TypeByName(name)
	if !ok {
		return 0, bperr.NewParseError(pos, "unknown type name "+name)
	}
	return t, nil
}

func (p *parser) parseTypeWithArgs() (model.Type, typeArgs, error) {
	typ, err := p.parseType()
	if err != nil {
		return 0, typeArgs{}, err
	}
	var args typeArgs
	if p.tok.kind == tokLBracket {
		if err := p.advance(); err != nil {
			return 0, typeArgs{}, err
		}
		if typ == model.Map {
			k, err := p.parseType()
			if err != nil {
				return 0, typeArgs{}, err
			}
			if _, err := p.expect(tokComma, "','"); err != nil {
				return 0, typeArgs{}, err
			}
			v, err := p.parseType()
			if err != nil {
				return 0, typeArgs{}, err
			}
			args.key, args.val = k, v
		} else {
			e, err := p.parseType()
			if err != nil {
				return 0, typeArgs{}, err
			}
			args.elem = e
		}
		args.hasArgs = true
		if _, err := p.expect(tokRBracket, "']'"); err != nil {
			return 0, typeArgs{}, err
		}
	}
	return typ, args, nil
}

func (p *parser) parseDigest32() (uint32, *string, error) {
	switch p.tok.kind {
	case tokHex:
		text := p.tok.text
		pos := p.tok.pos
		v, err := strconv.ParseUint(text[2:], 16, 32)
		if err != nil {
			return 0, nil, bperr.NewParseError(pos, "invalid hex literal")
		}
		if err := p.advance(); err != nil {
			return 0, nil, err
		}
		return uint32(v), nil, nil
	case tokIdent, tokString:
		name := p.tok.text
		if err := p.advance(); err != nil {
			return 0, nil, err
		}
		return digest.FNV1a(name), &name, nil
	default:
		return 0, nil, bperr.NewParseError(p.tok.pos, "expected a name or 0x hex literal")
	}
}

func (p *parser) parseDigest64() (uint64, *string, error) {
	switch p.tok.kind {
	case tokHex:
		text := p.tok.text
		pos := p.tok.pos
		v, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil {
			return 0, nil, bperr.NewParseError(pos, "invalid hex literal")
		}
		if err := p.advance(); err != nil {
			return 0, nil, err
		}
		return v, nil, nil
	case tokIdent, tokString:
		name := p.tok.text
		if err := p.advance(); err != nil {
			return 0, nil, err
		}
		return digest.XXH64(name), &name, nil
	default:
		return 0, nil, bperr.NewParseError(p.tok.pos, "expected a name or 0x hex literal")
	}
}

func (p *parser) parseValue(typ model.Type, args typeArgs) (model.Value, error) {
	switch typ {
	case model.None:
		return model.NoneValue{}, nil
	case model.Bool:
		return p.parseBoolLike(false)
	case model.Flag:
		return p.parseBoolLike(true)
	case model.I8:
		v, err := p.parseSignedNumber(8)
		return model.I8Value(v), err
	case model.U8:
		v, err := p.parseUnsignedNumber(8)
		return model.U8Value(v), err
	case model.I16:
		v, err := p.parseSignedNumber(16)
		return model.I16Value(v), err
	case model.U16:
		v, err := p.parseUnsignedNumber(16)
		return model.U16Value(v), err
	case model.I32:
		v, err := p.parseSignedNumber(32)
		return model.I32Value(v), err
	case model.U32:
		v, err := p.parseUnsignedNumber(32)
		return model.U32Value(v), err
	case model.I64:
		v, err := p.parseSignedNumber(64)
		return model.I64Value(v), err
	case model.U64:
		v, err := p.parseUnsignedNumber(64)
		return model.U64Value(v), err
	case model.F32:
		v, err := p.parseFloat()
		return model.F32Value(v), err
	case model.Vec2:
		vs, err := p.parseFloatBrace(2)
		if err != nil {
			return nil, err
		}
		return model.Vec2Value{vs[0], vs[1]}, nil
	case model.Vec3:
		vs, err := p.parseFloatBrace(3)
		if err != nil {
			return nil, err
		}
		return model.Vec3Value{vs[0], vs[1], vs[2]}, nil
	case model.Vec4:
		vs, err := p.parseFloatBrace(4)
		if err != nil {
			return nil, err
		}
		return model.Vec4Value{vs[0], vs[1], vs[2], vs[3]}, nil
	case model.Mtx44:
		vs, err := p.parseFloatBrace(16)
		if err != nil {
			return nil, err
		}
		var m model.Mtx44Value
		copy(m[:], vs)
		return m, nil
	case model.Rgba:
		if _, err := p.expect(tokLBrace, "'{'"); err != nil {
			return nil, err
		}
		var rgba model.RgbaValue
		for i := 0; i < 4; i++ {
			v, err := p.parseUnsignedNumber(8)
			if err != nil {
				return nil, err
			}
			rgba[i] = byte(v)
			if i < 3 {
				if _, err := p.expect(tokComma, "','"); err != nil {
					return nil, err
				}
			}
		}
		p.skipOptionalComma()
		if _, err := p.expect(tokRBrace, "'}'"); err != nil {
			return nil, err
		}
		return rgba, nil
	case model.String:
		s, err := p.expect(tokString, "a quoted string")
		if err != nil {
			return nil, err
		}
		return model.StringValue(s.text), nil
	case model.Hash:
		v, name, err := p.parseDigest32()
		if err != nil {
			return nil, err
		}
		return model.HashValue{Value: v, Name: name}, nil
	case model.Link:
		v, name, err := p.parseDigest32()
		if err != nil {
			return nil, err
		}
		return model.LinkValue{Value: v, Name: name}, nil
	case model.File:
		v, name, err := p.parseDigest64()
		if err != nil {
			return nil, err
		}
		return model.FileValue{Value: v, Name: name}, nil
	case model.List, model.List2:
		return p.parseListLike(typ, args.elem)
	case model.Option:
		return p.parseOption(args.elem)
	case model.Map:
		return p.parseMap(args.key, args.val)
	case model.Pointer:
		return p.parsePointer()
	case model.Embed:
		return p.parseEmbed()
	default:
		return nil, bperr.NewParseError(p.tok.pos, "unsupported type in value position")
	}
}

func (p *parser) parseBoolLike(asFlag bool) (model.Value, error) {
	if p.tok.kind != tokIdent {
		return nil, bperr.NewParseError(p.tok.pos, "expected true or false")
	}
	text := p.tok.text
	pos := p.tok.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	var b bool
	switch text {
	case "true":
		b = true
	case "false":
		b = false
	default:
		return nil, bperr.NewParseError(pos, "expected true or false")
	}
	if asFlag {
		return model.FlagValue(b), nil
	}
	return model.BoolValue(b), nil
}

func (p *parser) parseSignedNumber(bits int) (int64, error) {
	if p.tok.kind != tokNumber {
		return 0, bperr.NewParseError(p.tok.pos, "expected a number")
	}
	text := p.tok.text
	pos := p.tok.pos
	if err := p.advance(); err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(strings.TrimSuffix(text, "f"), 10, bits)
	if err != nil {
		return 0, bperr.NewParseError(pos, "invalid integer literal "+text)
	}
	return v, nil
}

func (p *parser) parseUnsignedNumber(bits int) (uint64, error) {
	if p.tok.kind != tokNumber {
		return 0, bperr.NewParseError(p.tok.pos, "expected a number")
	}
	text := p.tok.text
	pos := p.tok.pos
	if err := p.advance(); err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSuffix(text, "f"), 10, bits)
	if err != nil {
		return 0, bperr.NewParseError(pos, "invalid integer literal "+text)
	}
	return v, nil
}

func (p *parser) parseFloat() (float32, error) {
	if p.tok.kind != tokNumber {
		return 0, bperr.NewParseError(p.tok.pos, "expected a number")
	}
	text := strings.TrimSuffix(p.tok.text, "f")
	pos := p.tok.pos
	if err := p.advance(); err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return 0, bperr.NewParseError(pos, "invalid float literal "+text)
	}
	return float32(v), nil
}

func (p *parser) skipOptionalComma() {
	if p.tok.kind == tokComma {
		p.advance()
	}
}

func (p *parser) parseFloatBrace(n int) ([]float32, error) {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	out := make([]float32, 0, n)
	for i := 0; i < n; i++ {
		v, err := p.parseFloat()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if i < n-1 {
			if _, err := p.expect(tokComma, "','"); err != nil {
				return nil, err
			}
		}
	}
	p.skipOptionalComma()
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *parser) parseListLike(typ model.Type, elem model.Type) (model.Value, error) {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	var items []model.Value
	for p.tok.kind != tokRBrace {
		v, err := p.parseValue(elem, typeArgs{})
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	if typ == model.List2 {
		return model.List2Value{ElemType: elem, Items: items}, nil
	}
	return model.ListValue{ElemType: elem, Items: items}, nil
}

func (p *parser) parseOption(elem model.Type) (model.Value, error) {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	opt := model.OptionValue{ElemType: elem}
	if p.tok.kind != tokRBrace {
		v, err := p.parseValue(elem, typeArgs{})
		if err != nil {
			return nil, err
		}
		opt.Item = v
	}
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return opt, nil
}

func (p *parser) parseMap(keyType, valType model.Type) (model.Value, error) {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	m := model.MapValue{KeyType: keyType, ValueType: valType}
	for p.tok.kind != tokRBrace {
		k, err := p.parseValue(keyType, typeArgs{})
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokEquals, "'='"); err != nil {
			return nil, err
		}
		v, err := p.parseValue(valType, typeArgs{})
		if err != nil {
			return nil, err
		}
		m.Items = append(m.Items, model.MapEntry{Key: k, Value: v})
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return m, nil
}

func (p *parser) parsePointer() (model.Value, error) {
	if p.tok.kind == tokIdent && p.tok.text == "null" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return model.PointerValue{Name: 0}, nil
	}
	name, nameStr, fields, err := p.parseStructure()
	if err != nil {
		return nil, err
	}
	return model.PointerValue{Name: name, NameStr: nameStr, Fields: fields}, nil
}

func (p *parser) parseEmbed() (model.Value, error) {
	name, nameStr, fields, err := p.parseStructure()
	if err != nil {
		return nil, err
	}
	return model.EmbedValue{Name: name, NameStr: nameStr, Fields: fields}, nil
}

func (p *parser) parseStructure() (uint32, *string, []model.Field, error) {
	name, nameStr, err := p.parseDigest32()
	if err != nil {
		return 0, nil, nil, err
	}
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return 0, nil, nil, err
	}
	var fields []model.Field
	for p.tok.kind != tokRBrace {
		f, err := p.parseField()
		if err != nil {
			return 0, nil, nil, err
		}
		fields = append(fields, f)
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return 0, nil, nil, err
			}
			continue
		}
	}
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return 0, nil, nil, err
	}
	return name, nameStr, fields, nil
}

func (p *parser) parseField() (model.Field, error) {
	key, keyName, err := p.parseDigest32()
	if err != nil {
		return model.Field{}, err
	}
	if _, err := p.expect(tokColon, "':'"); err != nil {
		return model.Field{}, err
	}
	typ, args, err := p.parseTypeWithArgs()
	if err != nil {
		return model.Field{}, err
	}
	if _, err := p.expect(tokEquals, "'='"); err != nil {
		return model.Field{}, err
	}
	val, err := p.parseValue(typ, args)
	if err != nil {
		return model.Field{}, err
	}
	return model.Field{Key: key, KeyName: keyName, Type: typ, Value: val}, nil
}
