package xmlparser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestChecker_WellFormed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "単純な入れ子", content: `<a><b/></a>`},
		{name: "XML宣言付き", content: `<?xml version="1.0" encoding="UTF-8"?>` + "\n" + `<root attr="1">text</root>`},
		{name: "前後の空白とコメント", content: "\n<!-- head -->\n<a>x</a>\n<!-- tail -->\n"},
		{name: "処理命令", content: `<?xml-stylesheet type="text/xsl" href="s.xsl"?><a/>`},
		{name: "CDATAと文字参照", content: `<a><![CDATA[<not markup>]]>&amp;&#x41;&#65;</a>`},
		{name: "名前空間", content: `<x:a xmlns:x="urn:x"><x:b x:attr="v"/></x:a>`},
		{name: "内部サブセットの実体宣言", content: `<!DOCTYPE note [<!ENTITY writer "Donald">]><note>&writer;</note>`},
		{name: "外部DTDを参照するXHTML", content: `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd"><html><body>a&nbsp;b</body></html>`},
		{name: "UTF-8のBOM付き", content: "\xEF\xBB\xBF<?xml version=\"1.0\"?><a/>"},
		{name: "ISO-8859-1宣言", content: "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><a>caf\xe9</a>"},
		{name: "Shift_JIS宣言", content: "<?xml version=\"1.0\" encoding=\"Shift_JIS\"?><a>\x82\xa0</a>"},
		{name: "マルチバイト文字", content: `<メモ>こんにちは</メモ>`},
		{name: "外部サブセットがあれば未宣言の実体参照を許容", content: `<!DOCTYPE a SYSTEM "a.dtd"><a>&foo;<b attr="&bar;"/></a>`},
		{name: "外部実体の宣言", content: `<!DOCTYPE book [<!ENTITY chap1 SYSTEM "chap1.xml"><!ENTITY logo PUBLIC "-//X//logo" "logo.xml">]><book>&chap1;&logo;</book>`},
		{name: "パラメータ実体参照があれば未宣言の実体参照を許容", content: `<!DOCTYPE a [<!ENTITY % ext SYSTEM "ext.ent"> %ext;]><a>&custom;</a>`},
		{name: "マークアップを含む実体", content: `<!DOCTYPE a [<!ENTITY e "<b>x</b>">]><a>&e;</a>`},
		{name: "同じ名前空間で接頭辞の異なる属性", content: `<a xmlns:p="u" xmlns:q="u" p:x="1" q:x="2"/>`},
		{name: "接頭辞付きの要素", content: `<p:a xmlns:p="urn:p"><p:b/></p:a>`},
	}

	checker := NewChecker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, checker.CheckBytes([]byte(tt.content)))
		})
	}
}

func TestChecker_UTF16WithBOM(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-16"?><a><b>テキスト</b></a>`

	for _, endian := range []unicode.Endianness{unicode.LittleEndian, unicode.BigEndian} {
		encoded, err := unicode.UTF16(endian, unicode.UseBOM).NewEncoder().Bytes([]byte(doc))
		require.NoError(t, err)

		assert.NoError(t, NewChecker().CheckBytes(encoded))
	}
}

func TestChecker_NotWellFormed(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{name: "終了タグの不一致", content: []byte(`<a><b></a>`)},
		{name: "閉じられていない要素", content: []byte(`<a><b></b>`)},
		{name: "空のファイル", content: []byte{}},
		{name: "空白のみ", content: []byte(" \n\t")},
		{name: "プレーンテキスト", content: []byte("hello world")},
		{name: "ルート要素の後の文字列", content: []byte(`<a/>trailing`)},
		{name: "複数のルート要素", content: []byte(`<a/><b/>`)},
		{name: "先頭にないXML宣言", content: []byte(` <?xml version="1.0"?><a/>`)},
		{name: "未宣言の実体参照", content: []byte(`<a>&nbsp;</a>`)},
		{name: "属性の重複", content: []byte(`<a x="1" x="2"/>`)},
		{name: "引用符のない属性値", content: []byte(`<a x=1/>`)},
		{name: "JPEGのヘッダ", content: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}},
		{name: "NULを含むバイナリ", content: []byte{'<', 'a', '>', 0x00, 0x01, '<', '/', 'a', '>'}},
		{name: "不正なUTF-8", content: []byte("<a>\xff\xfe\xfd</a>")},
		{name: "未知のエンコーディング宣言", content: []byte(`<?xml version="1.0" encoding="x-unknown-enc"?><a/>`)},
		{name: "ルート要素の後のDOCTYPE", content: []byte(`<a/><!DOCTYPE a>`)},
		{name: "途中で切れた文書", content: []byte(`<root><child attr="`)},
		{name: "閉じられていない入れ子", content: []byte(`<root><child>`)},
		{name: "versionのないXML宣言", content: []byte(`<?xml encoding="UTF-8"?><a/>`)},
		{name: "空のXML宣言", content: []byte(`<?xml?><a/>`)},
		{name: "大文字のXML処理命令", content: []byte(`<?XML version="1.0"?><a/>`)},
		{name: "文書中の予約済み処理命令", content: []byte(`<a/><?Xml foo?>`)},
		{name: "スタンドアロン文書の未宣言の実体参照", content: []byte(`<?xml version="1.0" standalone="yes"?><!DOCTYPE a SYSTEM "a.dtd"><a>&foo;</a>`)},
		{name: "閉じていないマークアップを含む実体", content: []byte(`<!DOCTYPE a [<!ENTITY e "<b>">]><a>&e;</a>`)},
		{name: "接頭辞付きの属性の重複", content: []byte(`<a xmlns:p="u" p:x="1" p:x="2"/>`)},
		{name: "接頭辞の異なる終了タグ", content: []byte(`<p:a xmlns:p="u" xmlns:q="u"></q:a>`)},
	}

	checker := NewChecker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checker.CheckBytes(tt.content)
			require.Error(t, err)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr), "エラーが *ParseError ではありません: %T", err)
		})
	}
}

func TestChecker_Check_Reader(t *testing.T) {
	checker := NewChecker()

	assert.NoError(t, checker.Check(strings.NewReader(`<a><b/></a>`)))
	assert.Error(t, checker.Check(strings.NewReader(`<a><b></a>`)))
}

func TestParseError(t *testing.T) {
	cause := errors.New("原因")
	err := &ParseError{Line: 3, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "行 3")
}
