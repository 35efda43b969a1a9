package toml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTOML(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "tables and table arrays",
			doc:  "title = \"x\"\n[owner]\nname = \"Tom\"\n[[products]]\nname = \"Hammer\"\n[[products]]\nname = \"Nail\"\n",
			want: "title = \"x\"\n[owner]\n  name = \"Tom\"\n[[products]]\n  name = \"Hammer\"\n[[products]]\n  name = \"Nail\"\n",
		},
		{
			name: "sections after values",
			doc:  "t = {x = 1}\nn = 2\n",
			want: "n = 2\n[t]\n  x = 1\n",
		},
		{
			name: "nested headers",
			doc:  "[a.b]\nc = 1\n",
			want: "[a]\n  [a.b]\n    c = 1\n",
		},
		{
			name: "literal string backslashes",
			doc:  `winpath = 'C:\Users\nodejs\templates'` + "\n",
			want: `winpath = "C:\\Users\\nodejs\\templates"` + "\n",
		},
		{
			name: "arrays one element per line",
			doc:  "a = [1, 2]\ne = []\n[t]\nb = ['x']\n",
			want: "a = [\n  1,\n  2\n]\ne = []\n[t]\n  b = [\n    \"x\"\n  ]\n",
		},
		{
			name: "floats",
			doc:  "f = 1.0\ng = inf\nh = nan\ni = -inf\nj = 2.5e-10\n",
			want: "f = 1.0\ng = inf\nh = nan\ni = -inf\nj = 2.5e-10\n",
		},
		{
			name: "quoted keys",
			doc:  "\"a b\" = 1\n\"\" = 2\n\"é\" = 3\n\"x.y\" = 4\n",
			want: "\"a b\" = 1\n\"\" = 2\n\"\\u00E9\" = 3\n\"x.y\" = 4\n",
		},
		{
			name: "date and time values",
			doc:  "a = 1979-05-27T07:32:00-08:00\nb = 1979-05-27T07:32:00.25Z\nc = 1979-05-27T07:32:00\nd = 1979-05-27\ne = 07:32:00.999\n",
			want: "a = 1979-05-27T07:32:00-08:00\nb = 1979-05-27T07:32:00.25Z\nc = 1979-05-27T07:32:00\nd = 1979-05-27\ne = 07:32:00.999\n",
		},
		{
			name: "tables inside arrays are inline",
			doc:  "a = [1, {b = [2, 3], c = {}}]\n",
			want: "a = [\n  1,\n  { b = [2, 3], c = {} }\n]\n",
		},
		{
			name: "strings are escaped",
			doc:  "s = \"line\\nnext\\t\\\"q\\\" \\u00FF \\U0001F600\"\n",
			want: "s = \"line\\nnext\\t\\\"q\\\" \\u00FF \\U0001F600\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustParse(t, tt.doc)
			require.False(t, res.HasErrors(), res.Errors())
			assert.Equal(t, tt.want, res.ToTOML())
		})
	}
}

func TestWriteTOML_RoundTrip(t *testing.T) {
	docs := []string{
		`title = "TOML Example"

[owner]
name = "Tom Preston-Werner"
dob = 1979-05-27T07:32:00-08:00

[database]
server = "192.168.1.1"
ports = [ 8000, 8001, 8002 ]
connection_max = 5000
enabled = true

[servers.alpha]
ip = "10.0.0.1"
dc = "eqdc10"

[clients]
data = [ ["gamma", "delta"], [1, 2] ]
hosts = [
  "alpha",
  "omega"
]
`,
		`[[fruit]]
name = "apple"
[fruit.physical]
color = "red"
shape = "round"
[[fruit.variety]]
name = "red delicious"
[[fruit.variety]]
name = "granny smith"
[[fruit]]
name = "banana"
[[fruit.variety]]
name = "plantain"
`,
		`points = [ { x = 1, y = 2, z = 3 }, { x = 7, y = 8, z = 9 } ]
mixed = [1, "two", 3.0, {four = 4}, [5]]
name = { first = "Tom", last = "Preston-Werner" }
a.b.c = 1
a.d = 2
"quoted key" = 'literal \string'
"" = "empty"
`,
		`f1 = +1.0
f2 = 3.1415
f3 = -0.01
f4 = 5e+22
f5 = 6.626e-34
sf1 = inf
sf3 = nan
i1 = -17
i2 = 0xDEADBEEF
ld = 1979-05-27
lt = 00:32:00.999999
ldt = 1979-05-27T00:32:00.999999
odt = 1979-05-27T00:32:00.999999-07:00
str = """
Roses are red
Violets are blue"""
`,
	}
	for i, doc := range docs {
		res := mustParse(t, doc)
		require.False(t, res.HasErrors(), "doc %d: %v", i, res.Errors())

		out := res.ToTOML()
		again := mustParse(t, out)
		require.False(t, again.HasErrors(), "doc %d reparse: %v\n%s", i, again.Errors(), out)
		assert.True(t, Equal(res.Table, again.Table), "doc %d:\n%s", i, out)
	}
}

func TestWriteTOML_Array(t *testing.T) {
	res := mustParse(t, "a = [1, [2]]\n")
	assert.Equal(t, "[\n  1,\n  [\n    2\n  ]\n]\n", res.Get("a").(*Array).ToTOML())
}

func TestWriteTOML_InvalidValue(t *testing.T) {
	var b strings.Builder
	assert.ErrorIs(t, WriteTOML(&b, "x"), ErrInvalidValueType)
}

func TestWriteTOML_PanicsOnForeignValues(t *testing.T) {
	table := newTable(true)
	table.put("bad", 42, Position{})
	assert.Panics(t, func() { _ = table.ToTOML() })
}
