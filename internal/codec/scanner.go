package codec

import "strings"

type scanState int

const (
	stateUnquoted scanState = iota
	stateQuoted
)

// scanRecord splits one record into fields. A doubled quote inside a quoted
// field is a literal quote; a lone quote toggles quoting; a comma ends the
// field only while unquoted. The returned state is stateQuoted when the record
// ends inside an open quoted field.
func scanRecord(record string) ([]string, scanState) {
	var (
		fields []string
		cur    strings.Builder
		state  = stateUnquoted
	)
	for i := 0; i < len(record); i++ {
		c := record[i]
		switch {
		case c == '"' && state == stateQuoted && i+1 < len(record) && record[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			if state == stateQuoted {
				state = stateUnquoted
			} else {
				state = stateQuoted
			}
		case c == ',' && state == stateUnquoted:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())
	return fields, state
}
