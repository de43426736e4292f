package adapter

import (
	"strings"
	"testing"

	m "github.com/mouse-blink/quill/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSharpAdapter_Extract(t *testing.T) {
	adapter := NewCSharpAdapter()

	t.Run("instance method inside class", func(t *testing.T) {
		src := "namespace Demo\n" +
			"{\n" +
			"    public class Calculator\n" +
			"    {\n" +
			"        public int Add(int a, int b)\n" +
			"        {\n" +
			"            return a + b;\n" +
			"        }\n" +
			"    }\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		require.Len(t, records, 1)

		record := records[0]
		assert.Equal(t, "Add", record.Name)
		assert.Equal(t, "Calculator.Add", record.QualifiedName)
		assert.Equal(t, m.LanguageCSharp, record.Language)
		assert.Equal(t, "int", record.ReturnTypeHint)
		assert.Equal(t, 5, record.Line)
		assert.Equal(t, "        ", record.SignatureIndent)
		assert.Equal(t, "    ", record.IndentUnit)
		assert.False(t, record.HasDocstring)

		require.Len(t, record.Parameters, 2)
		assert.Equal(t, m.Parameter{Name: "a", TypeHint: "int"}, record.Parameters[0])
		assert.Equal(t, m.Parameter{Name: "b", TypeHint: "int"}, record.Parameters[1])

		assert.Equal(t, strings.Index(src, "public int Add")-8, record.StartOffset)

		closeBrace := strings.Index(src, "        }")
		assert.Equal(t, closeBrace+len("        }\n"), record.EndOffset)
		assert.Less(t, record.BodyStartOffset, record.EndOffset)
	})

	t.Run("constructors and calls are not methods", func(t *testing.T) {
		src := "public class Widget\n" +
			"{\n" +
			"    public Widget(int size)\n" +
			"    {\n" +
			"        Resize(size);\n" +
			"        var copy = Clone(this);\n" +
			"    }\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("control flow keywords are not methods", func(t *testing.T) {
		src := "public class Loop\n" +
			"{\n" +
			"    public void Run(int n)\n" +
			"    {\n" +
			"        if (n > 0)\n" +
			"        {\n" +
			"            for (var i = 0; i < n; i++)\n" +
			"            {\n" +
			"                Step(i);\n" +
			"            }\n" +
			"        }\n" +
			"    }\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		require.Len(t, records, 1)

		assert.Equal(t, "Run", records[0].Name)
	})

	t.Run("expression bodied method", func(t *testing.T) {
		src := "public class Text\n" +
			"{\n" +
			"    public string Shout(string input) => input.ToUpper();\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		require.Len(t, records, 1)

		record := records[0]
		assert.Equal(t, "Shout", record.Name)
		assert.Equal(t, "string", record.ReturnTypeHint)
		assert.LessOrEqual(t, record.StartOffset, record.BodyStartOffset)
		assert.LessOrEqual(t, record.BodyStartOffset, record.EndOffset)
	})

	t.Run("generic method with constraint", func(t *testing.T) {
		src := "public class Factory\n" +
			"{\n" +
			"    public T Make<T>() where T : new()\n" +
			"    {\n" +
			"        return new T();\n" +
			"    }\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		require.Len(t, records, 1)

		record := records[0]
		assert.Equal(t, "Make", record.Name)
		assert.Equal(t, "T", record.ReturnTypeHint)
		assert.Empty(t, record.Parameters)
	})

	t.Run("local function is recognized", func(t *testing.T) {
		src := "public class Math2\n" +
			"{\n" +
			"    public int Twice(int n)\n" +
			"    {\n" +
			"        int Double(int x)\n" +
			"        {\n" +
			"            return x * 2;\n" +
			"        }\n" +
			"        return Double(n);\n" +
			"    }\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "Twice", records[0].Name)
		assert.Equal(t, "Double", records[1].Name)
		assert.Equal(t, "Math2.Double", records[1].QualifiedName)
	})

	t.Run("xml doc comment block detected", func(t *testing.T) {
		src := "public class Greeter\n" +
			"{\n" +
			"    /// <summary>\n" +
			"    /// Says hello.\n" +
			"    /// </summary>\n" +
			"    public string Hello(string name)\n" +
			"    {\n" +
			"        return \"hi \" + name;\n" +
			"    }\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		require.Len(t, records, 1)

		record := records[0]
		require.True(t, record.HasDocstring)
		require.NotNil(t, record.DocstringRange)

		got := src[record.DocstringRange.Start:record.DocstringRange.End]
		assert.Equal(t, "    /// <summary>\n    /// Says hello.\n    /// </summary>\n", got)
	})

	t.Run("doc block above attributes", func(t *testing.T) {
		src := "public class Jobs\n" +
			"{\n" +
			"    /// <summary>Runs it.</summary>\n" +
			"    [Obsolete(\"use RunAsync\")]\n" +
			"    public void Run()\n" +
			"    {\n" +
			"    }\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		require.Len(t, records, 1)

		record := records[0]
		assert.Equal(t, strings.Index(src, "    [Obsolete"), record.StartOffset)
		require.True(t, record.HasDocstring)
		assert.Equal(t, "    /// <summary>Runs it.</summary>\n",
			src[record.DocstringRange.Start:record.DocstringRange.End])
	})

	t.Run("block comment counts as existing documentation", func(t *testing.T) {
		src := "public class Store\n" +
			"{\n" +
			"    /* Persists the value\n" +
			"       to disk. */\n" +
			"    public void Save(string value)\n" +
			"    {\n" +
			"    }\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		require.Len(t, records, 1)

		record := records[0]
		require.True(t, record.HasDocstring)
		assert.Equal(t, "    /* Persists the value\n       to disk. */\n",
			src[record.DocstringRange.Start:record.DocstringRange.End])
	})

	t.Run("declarations inside strings and comments ignored", func(t *testing.T) {
		src := "public class Tricks\n" +
			"{\n" +
			"    // public int Fake(int x) { return x; }\n" +
			"    private const string Snippet = \"public int Also(int x) { return x; }\";\n" +
			"    private const string Block = @\"\n" +
			"public int Verbatim(int x)\n" +
			"{\n" +
			"    return x;\n" +
			"}\n" +
			"\";\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("thrown exceptions collected", func(t *testing.T) {
		src := "public class Guard\n" +
			"{\n" +
			"    public void Check(object value)\n" +
			"    {\n" +
			"        if (value == null)\n" +
			"        {\n" +
			"            throw new ArgumentNullException(nameof(value));\n" +
			"        }\n" +
			"        throw new System.InvalidOperationException();\n" +
			"    }\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		require.Len(t, records, 1)

		assert.Equal(t, []string{"ArgumentNullException", "System.InvalidOperationException"}, records[0].Raises)
	})

	t.Run("parameter modifiers and defaults", func(t *testing.T) {
		src := "public class Calls\n" +
			"{\n" +
			"    public bool TryGet(string key, out int value, int retries = 3)\n" +
			"    {\n" +
			"        value = 0;\n" +
			"        return false;\n" +
			"    }\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		require.Len(t, records, 1)

		params := records[0].Parameters
		require.Len(t, params, 3)
		assert.Equal(t, m.Parameter{Name: "key", TypeHint: "string"}, params[0])
		assert.Equal(t, m.Parameter{Name: "value", TypeHint: "int"}, params[1])
		assert.Equal(t, m.Parameter{Name: "retries", TypeHint: "int", Default: "3"}, params[2])
	})

	t.Run("nested classes qualify through both", func(t *testing.T) {
		src := "public class Outer\n" +
			"{\n" +
			"    public class Inner\n" +
			"    {\n" +
			"        public void Ping()\n" +
			"        {\n" +
			"        }\n" +
			"    }\n" +
			"\n" +
			"    public void Pong()\n" +
			"    {\n" +
			"    }\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "Outer.Inner.Ping", records[0].QualifiedName)
		assert.Equal(t, "Outer.Pong", records[1].QualifiedName)
	})

	t.Run("interface method without body", func(t *testing.T) {
		src := "public interface IStore\n" +
			"{\n" +
			"    int Count(string bucket);\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		require.Len(t, records, 1)

		record := records[0]
		assert.Equal(t, "IStore.Count", record.QualifiedName)
		assert.Equal(t, record.BodyStartOffset, record.EndOffset)
	})

	t.Run("multiline signature", func(t *testing.T) {
		src := "public class Merge\n" +
			"{\n" +
			"    public Dictionary<string, int> Combine(\n" +
			"        Dictionary<string, int> left,\n" +
			"        Dictionary<string, int> right)\n" +
			"    {\n" +
			"        return left;\n" +
			"    }\n" +
			"}\n"

		records, err := adapter.Extract([]byte(src))
		require.NoError(t, err)
		require.Len(t, records, 1)

		record := records[0]
		assert.Equal(t, "Combine", record.Name)
		assert.Equal(t, "Dictionary<string, int>", record.ReturnTypeHint)

		require.Len(t, record.Parameters, 2)
		assert.Equal(t, m.Parameter{Name: "left", TypeHint: "Dictionary<string, int>"}, record.Parameters[0])
	})

	t.Run("invalid utf8 returns error", func(t *testing.T) {
		_, err := adapter.Extract([]byte{0xc3, 0x28, 'c', 's'})
		assert.Error(t, err)
	})
}
