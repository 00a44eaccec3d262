package sprite

import (
	"fmt"

	"github.com/go-faster/jx"
)

func encodeJSON(s Sprite) []byte {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.SetIdent(2)
	e.ObjStart()
	e.FieldStart("id")
	e.Str(s.id.String())
	e.FieldStart("displayName")
	e.Str(s.displayName)
	if s.authorName != UnknownAuthor {
		e.FieldStart("author")
		e.Str(s.authorName)
	}
	e.FieldStart("data")
	e.Base64(s.data)
	e.FieldStart("palette")
	e.Str(s.paletteName)
	if s.description != nil {
		e.FieldStart("description")
		e.Str(*s.description)
	}
	if len(s.tags) > 0 {
		e.FieldStart("tags")
		e.ArrStart()
		for _, t := range s.tags {
			e.Str(t)
		}
		e.ArrEnd()
	}
	e.FieldStart("timestamp")
	e.Str(timestamp(s))
	e.ObjEnd()

	return append(append([]byte(nil), e.Bytes()...), '\n')
}

func decodeJSONData(d *jx.Decoder) ([]byte, error) {
	switch d.Next() {
	case jx.Null:
		return nil, d.Null()
	case jx.Array:
		var b []byte
		err := d.Arr(func(d *jx.Decoder) error {
			v, err := d.Int()
			if err != nil {
				return err
			}
			if v < -128 || v > 255 {
				return fmt.Errorf("data: value %d out of range", v)
			}
			b = append(b, byte(v))
			return nil
		})
		return b, err
	default:
		return d.Base64()
	}
}

func decodeJSONTags(d *jx.Decoder) ([]string, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		return splitTags(s), err
	case jx.Array:
		tags := []string{}
		err := d.Arr(func(d *jx.Decoder) error {
			if d.Next() != jx.String {
				return d.Skip()
			}
			t, err := d.Str()
			if err != nil {
				return err
			}
			tags = append(tags, t)
			return nil
		})
		return tags, err
	default:
		return nil, d.Skip()
	}
}

func decodeJSONString(d *jx.Decoder) (*string, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	s, err := d.Str()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func decodeJSON(b []byte) (record, error) {
	var (
		r    record
		ulid string
	)

	err := jx.DecodeBytes(b).Obj(func(d *jx.Decoder, key string) error {
		var (
			s   *string
			err error
		)
		switch key {
		case "id", "ulid", "author", "palette":
			if s, err = decodeJSONString(d); err != nil || s == nil {
				return err
			}
			switch key {
			case "id":
				r.id = *s
			case "ulid":
				ulid = *s
			case "author":
				r.author = *s
			case "palette":
				r.palette = *s
			}
		case "displayName":
			r.displayName, err = decodeJSONString(d)
		case "description":
			r.description, err = decodeJSONString(d)
		case "data":
			r.data, err = decodeJSONData(d)
		case "tags":
			r.tags, err = decodeJSONTags(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return record{}, err
	}

	if r.id == "" {
		r.id = ulid
	}

	return r, nil
}
