package toml

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, doc string, opts ...Option) *Result {
	t.Helper()
	res, err := ParseString(doc, opts...)
	require.NoError(t, err)
	return res
}

func messages(errs ParseErrors) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}

func TestParse_Document(t *testing.T) {
	res := mustParse(t, `title = "TOML Example"

[owner]
name = "Tom"
dob = 1979-05-27T07:32:00-08:00

[database]
ports = [ 8000, 8001, 8002 ]
enabled = true
`)
	require.False(t, res.HasErrors(), res.Errors())
	assert.Nil(t, res.Err())

	assert.Equal(t, "TOML Example", res.Get("title"))
	assert.Equal(t, "Tom", res.Get("owner.name"))
	dob, ok := GetAs[time.Time](res.Table, "owner.dob")
	require.True(t, ok)
	assert.Equal(t, "1979-05-27T15:32:00Z", dob.UTC().Format(time.RFC3339))
	assert.Equal(t, true, res.Get("database.enabled"))

	ports, ok := GetAs[*Array](res.Table, "database.ports")
	require.True(t, ok)
	assert.Equal(t, []any{int64(8000), int64(8001), int64(8002)}, ports.ToSlice())
	assert.Equal(t, Position{8, 17}, ports.InputPositionOf(1))

	pos, ok := res.InputPositionOf("owner")
	require.True(t, ok)
	assert.Equal(t, Position{3, 1}, pos)
	pos, ok = res.InputPositionOf("owner.dob")
	require.True(t, ok)
	assert.Equal(t, Position{5, 1}, pos)
}

func TestParse_DuplicateKeyKeepsFirst(t *testing.T) {
	res := mustParse(t, "a = 1\na = 2\n")
	require.Len(t, res.Errors(), 1)
	e := res.Errors()[0]
	assert.Equal(t, "a previously defined at line 1, column 1", e.Message)
	assert.Equal(t, Position{2, 1}, e.Position)
	assert.Equal(t, int64(1), res.Get("a"))
}

func TestParse_ImplicitTablePromotedOnce(t *testing.T) {
	res := mustParse(t, "a.b.c = 1\n[a.b]\nd = 2\n[a.b]\n")
	require.Len(t, res.Errors(), 1)
	e := res.Errors()[0]
	assert.Equal(t, "a.b previously defined at line 2, column 1", e.Message)
	assert.Equal(t, Position{4, 1}, e.Position)
	assert.Equal(t, int64(1), res.Get("a.b.c"))
	assert.Equal(t, int64(2), res.Get("a.b.d"))

	ab, ok := GetAs[*Table](res.Table, "a.b")
	require.True(t, ok)
	assert.True(t, ab.IsDefined())
	a, _ := GetAs[*Table](res.Table, "a")
	assert.False(t, a.IsDefined())
}

func TestParse_HeaderAfterSubTable(t *testing.T) {
	res := mustParse(t, "[x.y.z]\nv = 1\n[x]\nw = 2\n")
	require.False(t, res.HasErrors(), res.Errors())
	assert.Equal(t, int64(1), res.Get("x.y.z.v"))
	assert.Equal(t, int64(2), res.Get("x.w"))
	assert.Equal(t, []string{"y", "w"}, res.Get("x").(*Table).Keys())
}

func TestParse_DottedKeyUnderHeaderTable(t *testing.T) {
	res := mustParse(t, "[a.b.c]\nz = 1\n[a]\nb.c.t = 9\n")
	require.False(t, res.HasErrors(), res.Errors())
	c, ok := GetAs[*Table](res.Table, "a.b.c")
	require.True(t, ok)
	assert.Equal(t, []string{"z", "t"}, c.Keys())
	assert.Equal(t, int64(9), res.Get("a.b.c.t"))

	pos, ok := res.InputPositionOf("a.b.c.t")
	require.True(t, ok)
	assert.Equal(t, Position{4, 1}, pos)
}

func TestParse_TableArrays(t *testing.T) {
	res := mustParse(t, `[[fruit]]
name = "apple"
[fruit.physical]
color = "red"
[[fruit.variety]]
name = "red delicious"
[[fruit]]
name = "banana"
`)
	require.False(t, res.HasErrors(), res.Errors())
	fruit, ok := GetAs[*Array](res.Table, "fruit")
	require.True(t, ok)
	assert.True(t, fruit.IsTableArray())
	require.Equal(t, 2, fruit.Len())

	apple := fruit.Get(0).(*Table)
	assert.Equal(t, "red", apple.Get("physical.color"))
	variety := apple.Get("variety").(*Array)
	assert.Equal(t, "red delicious", variety.Get(0).(*Table).Get("name"))
	assert.Equal(t, "banana", fruit.Get(1).(*Table).Get("name"))
	assert.Equal(t, Position{7, 1}, fruit.InputPositionOf(1))
}

func TestParse_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
		pos  Position
	}{
		{"literal array then table array", "arr = [1]\n[[arr]]\n", "arr previously defined as a literal array at line 1, column 1", Position{2, 1}},
		{"value then table array", "arr = 1\n[[arr]]\n", "arr is not an array (previously defined at line 1, column 1)", Position{2, 1}},
		{"table then table array", "[arr]\n[[arr]]\n", "arr is not an array (previously defined at line 1, column 1)", Position{2, 1}},
		{"table array then table", "[[arr]]\n[arr]\n", "arr previously defined at line 1, column 1", Position{2, 1}},
		{"dotted key through value", "a = 1\na.b = 2\n", "a is not a table (previously defined at line 1, column 1)", Position{2, 1}},
		{"header through value", "a = 1\n[a.b]\n", "a is not a table (previously defined at line 1, column 1)", Position{2, 1}},
		{"header extends inline table", "t = {a = 1}\n[t.b]\n", "t is an inline table (previously defined at line 1, column 1)", Position{2, 1}},
		{"dotted key extends inline table", "t = {a = 1}\nt.b = 2\n", "t is an inline table (previously defined at line 1, column 1)", Position{2, 1}},
		{"header redefines inline table", "t = {}\n[t]\n", "t previously defined at line 1, column 1", Position{2, 1}},
		{"duplicate inside inline table", "t = {a = 1, a = 2}\n", "a previously defined at line 1, column 6", Position{1, 13}},
		{"empty header", "[]\n", "Empty table key", Position{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustParse(t, tt.doc)
			require.Len(t, res.Errors(), 1, messages(res.Errors()))
			assert.Equal(t, tt.msg, res.Errors()[0].Message)
			assert.Equal(t, tt.pos, res.Errors()[0].Position)
		})
	}
}

func TestParse_InlineTableSubTablesAreDefined(t *testing.T) {
	res := mustParse(t, "t = {a.b = 1, a.c = 2}\n")
	require.False(t, res.HasErrors(), res.Errors())
	a, ok := GetAs[*Table](res.Table, "t.a")
	require.True(t, ok)
	assert.True(t, a.IsDefined())
	assert.Equal(t, []string{"b", "c"}, a.Keys())
}

func TestParse_RecoversAfterErrors(t *testing.T) {
	res := mustParse(t, "a = \nb = 2\nc = 0x\nd = 4\n")
	assert.Equal(t, []string{"expected value, found newline", "Incomplete 0x integer: 0x"}, messages(res.Errors()))
	assert.Equal(t, Position{1, 5}, res.Errors()[0].Position)
	assert.Equal(t, Position{3, 5}, res.Errors()[1].Position)
	assert.Equal(t, int64(2), res.Get("b"))
	assert.Equal(t, int64(4), res.Get("d"))
	assert.False(t, res.Contains("a"))
	assert.False(t, res.Contains("c"))
}

func TestParse_VersionGating(t *testing.T) {
	tests := []struct {
		name    string
		version Version
		doc     string
		msg     string
		pos     Position
	}{
		{"dotted keys", V0_4_0, "a.b = 1\n", "Dotted keys are not supported", Position{1, 1}},
		{"mixed array", V0_5_0, "a = [1, 'x']\n", "Cannot add a string to an array containing integers", Position{1, 9}},
		{"tab in string", V0_5_0, "a = \"x\ty\"\n", "Use \\t to represent a tab in a string (TOML versions before 1.0.0)", Position{1, 7}},
		{"trailing comma in inline table", V1_0_0, "t = {a = 1,}\n", "Trailing commas are not allowed in inline tables (TOML versions before 1.1.0)", Position{1, 5}},
		{"newline in inline table", V1_0_0, "t = {\n  a = 1\n}\n", "Newlines are not allowed in inline tables (TOML versions before 1.1.0)", Position{1, 5}},
		{"escape e", V1_0_0, "a = \"\\e\"\n", "Invalid escape sequence '\\e' (TOML versions before 1.1.0)", Position{1, 6}},
		{"time without seconds", V1_0_0, "a = 07:32\n", "Invalid time: seconds are required (TOML versions before 1.1.0)", Position{1, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustParse(t, tt.doc, WithVersion(tt.version))
			require.Len(t, res.Errors(), 1, messages(res.Errors()))
			assert.Equal(t, tt.msg, res.Errors()[0].Message)
			assert.Equal(t, tt.pos, res.Errors()[0].Position)

			head := mustParse(t, tt.doc)
			assert.False(t, head.HasErrors(), messages(head.Errors()))
		})
	}
}

func TestParse_HeadFeatures(t *testing.T) {
	res := mustParse(t, "a = \"\\e\\x41\"\nb = 07:32\nc = [1, 'x']\n")
	require.False(t, res.HasErrors(), res.Errors())
	assert.Equal(t, "\x1bA", res.Get("a"))
	assert.Equal(t, LocalTime{Hour: 7, Minute: 32}, res.Get("b"))
	assert.Equal(t, []any{int64(1), "x"}, res.Get("c").(*Array).ToSlice())
}

func TestParse_InvalidUTF8(t *testing.T) {
	res := mustParse(t, "a = '\xff'\nb = 1\n")
	require.Len(t, res.Errors(), 1)
	assert.Equal(t, "Invalid UTF-8 byte sequence", res.Errors()[0].Message)
	assert.Equal(t, Position{1, 6}, res.Errors()[0].Position)
	assert.True(t, res.IsEmpty())
}

func TestParse_FailOnSyntaxError(t *testing.T) {
	res, err := ParseString("a = \nb = 2\n", FailOnSyntaxError())
	assert.Nil(t, res)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "expected value, found newline", pe.Message)
	assert.Equal(t, Position{1, 5}, pe.Position)

	// Semantic errors are still collected.
	res, err = ParseString("a = 1\na = 2\n", FailOnSyntaxError())
	require.NoError(t, err)
	assert.True(t, res.HasErrors())
}

func TestParse_InvalidArguments(t *testing.T) {
	_, err := Parse(nil)
	assert.ErrorIs(t, err, ErrNilInput)

	_, err = Parse([]byte{}, WithVersion(Version(99)))
	assert.ErrorIs(t, err, ErrInvalidVersion)

	res, err := Parse([]byte{})
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
	assert.False(t, res.HasErrors())
}

func TestParseErrors_Error(t *testing.T) {
	res := mustParse(t, "a = 1\na = 2\na = 3\n")
	require.Len(t, res.Errors(), 2)

	want := "parse error at line 2, column 1: a previously defined at line 1, column 1\n" +
		"  2 | a = 2\n" +
		"    | ^ (and 1 more errors)"
	assert.Equal(t, want, res.Err().Error())

	var errs ParseErrors
	require.ErrorAs(t, res.Err(), &errs)
	assert.Len(t, errs, 2)
}

func TestParseError_Caret(t *testing.T) {
	res := mustParse(t, "x = 1\n\ty = 0x\n")
	require.Len(t, res.Errors(), 1)
	want := "parse error at line 2, column 6: Incomplete 0x integer: 0x\n" +
		"  2 | \ty = 0x\n" +
		"    | \t    ^\n"
	assert.Equal(t, want, res.Errors()[0].Error())

	bare := &ParseError{Message: "boom", Position: Position{3, 4}}
	assert.Equal(t, "parse error at line 3, column 4: boom", bare.Error())
}

func TestResult_ErrorsIsACopy(t *testing.T) {
	res := mustParse(t, "a = 1\na = 2\n")
	errs := res.Errors()
	errs[0] = nil
	assert.NotNil(t, res.Errors()[0])
}

func TestResult_ToMap(t *testing.T) {
	res := mustParse(t, "a = 1\n[b]\nc = [1, 2]\nd = {e = 'f'}\n")
	assert.Equal(t, map[string]any{
		"a": int64(1),
		"b": map[string]any{
			"c": []any{int64(1), int64(2)},
			"d": map[string]any{"e": "f"},
		},
	}, res.ToMap())
}
