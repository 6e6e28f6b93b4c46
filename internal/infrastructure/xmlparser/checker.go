// Package xmlparser はXMLの整形式チェック（検証なし）を提供します。
//
// 解析結果は error で表します。nil なら整形式、*ParseError なら整形式ではありません。
// 呼び出し側はエラーの内容を区別せずに扱うことを想定しています。
package xmlparser

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ParseError は整形式でないことを表すエラーです
type ParseError struct {
	// Line はエラーを検出した行番号（1始まり）です
	Line int
	// Err は解析器が返した元のエラーです
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("整形式のXMLではありません (行 %d): %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	errNoRoot           = errors.New("ルート要素がありません")
	errMultipleRoots    = errors.New("ルート要素が複数あります")
	errTextOutsideRoot  = errors.New("ルート要素の外に文字データがあります")
	errMisplacedDecl    = errors.New("XML宣言が文書の先頭にありません")
	errMalformedDecl    = errors.New("XML宣言に version がありません")
	errReservedTarget   = errors.New("処理命令のターゲット名 xml は予約されています")
	errLateDoctype      = errors.New("DOCTYPE宣言がルート要素の後にあります")
	errUnexpectedEOF    = errors.New("閉じられていない要素があります")
	errUnbalancedEntity = errors.New("実体の置換テキストのマークアップが閉じていません")
)

var (
	internalEntityPattern = regexp.MustCompile(`<!ENTITY\s+([^\s%"']+)\s+(?:"([^"]*)"|'([^']*)')\s*>`)
	externalEntityPattern = regexp.MustCompile(`<!ENTITY\s+([^\s%"']+)\s+(?:SYSTEM|PUBLIC)\s`)
	externalIDPattern     = regexp.MustCompile(`^DOCTYPE\s+\S+\s+(?:SYSTEM|PUBLIC)\s`)
	paramRefPattern       = regexp.MustCompile(`%[^\s;%&<>"'#0-9.\-][^\s;%&<>"']*;`)
	entityRefPattern      = regexp.MustCompile(`&([^\s;%&<>"'#0-9.\-][^\s;&<>"']*);`)
	versionPattern        = regexp.MustCompile(`^\s*version\s*=`)
	standalonePattern     = regexp.MustCompile(`standalone\s*=\s*["']yes["']`)
)

// 定義済み実体
var predefinedEntities = map[string]bool{"lt": true, "gt": true, "amp": true, "apos": true, "quot": true}

// Checker はXMLの整形式チェックを行う構造体です
type Checker struct{}

// NewChecker は新しい Checker インスタンスを作成します
func NewChecker() *Checker {
	return &Checker{}
}

// Check は r の内容全体を読み込み、整形式のXMLであれば nil を返します。
// 整形式でなければ *ParseError を返します。
func (c *Checker) Check(r io.Reader) error {
	br := bufio.NewReader(r)
	head, _ := br.Peek(2)
	transcoded := hasUTF16BOM(head)

	// BOM があれば取り除き、UTF-16 は UTF-8 に変換する。BOM がなければそのまま通す
	data, err := io.ReadAll(transform.NewReader(br, unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return &ParseError{Line: 1, Err: err}
	}

	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = true
	d.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		if transcoded {
			return input, nil
		}
		return charset.NewReaderLabel(label, input)
	}

	if err := c.scan(d, data); err != nil {
		line, _ := d.InputPos()
		return &ParseError{Line: line, Err: err}
	}
	return nil
}

// CheckBytes は data が整形式のXMLかどうかを判定します
func (c *Checker) CheckBytes(data []byte) error {
	return c.Check(bytes.NewReader(data))
}

// scan はトークンを最後まで読み進め、文書全体の構造を検査します。
// 名前空間の解決は行わず、要素名・属性名は接頭辞付きのまま比較します。
func (c *Checker) scan(d *xml.Decoder, data []byte) error {
	var (
		open       []string
		rootSeen   bool
		standalone bool
	)

	for index := 0; ; index++ {
		tok, err := d.RawToken()
		if err == io.EOF {
			if len(open) > 0 {
				return errUnexpectedEOF
			}
			if !rootSeen {
				return errNoRoot
			}
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(open) == 0 {
				if rootSeen {
					return errMultipleRoots
				}
				rootSeen = true
			}
			if err := checkDuplicateAttrs(t); err != nil {
				return err
			}
			open = append(open, rawName(t.Name))
		case xml.EndElement:
			name := rawName(t.Name)
			if len(open) == 0 {
				return fmt.Errorf("対応する開始タグのない終了タグ </%s>", name)
			}
			if last := open[len(open)-1]; last != name {
				return fmt.Errorf("終了タグ </%s> が開始タグ <%s> と一致しません", name, last)
			}
			open = open[:len(open)-1]
		case xml.CharData:
			if len(open) == 0 && len(bytes.Trim(t, " \t\r\n")) > 0 {
				return errTextOutsideRoot
			}
		case xml.ProcInst:
			if !strings.EqualFold(t.Target, "xml") {
				continue
			}
			if t.Target != "xml" {
				return errReservedTarget
			}
			if index != 0 {
				return errMisplacedDecl
			}
			if !versionPattern.Match(t.Inst) {
				return errMalformedDecl
			}
			standalone = standalonePattern.Match(t.Inst)
		case xml.Directive:
			if !bytes.HasPrefix(t, []byte("DOCTYPE")) {
				continue
			}
			if rootSeen {
				return errLateDoctype
			}
			if err := declareEntities(d, t, standalone, data); err != nil {
				return err
			}
		}
	}
}

// declareEntities は DOCTYPE で宣言された一般実体を Decoder に登録します。
// 外部実体の置換テキストは読み込まないため空文字列として扱います。
// 外部サブセットやパラメータ実体参照を持つ非スタンドアロン文書では、
// 未宣言の実体参照は整形式エラーにならないため、文書中の参照をすべて空文字列で登録します。
func declareEntities(d *xml.Decoder, doctype xml.Directive, standalone bool, data []byte) error {
	declared := make(map[string]string)
	var markup []string
	for _, m := range internalEntityPattern.FindAllSubmatch(doctype, -1) {
		name := string(m[1])
		if _, ok := declared[name]; ok {
			// 最初の宣言が有効
			continue
		}
		value := string(m[2])
		if len(m[3]) > 0 {
			value = string(m[3])
		}
		declared[name] = value
		if strings.Contains(value, "<") {
			markup = append(markup, name)
		}
	}
	for _, m := range externalEntityPattern.FindAllSubmatch(doctype, -1) {
		if name := string(m[1]); !hasKey(declared, name) {
			declared[name] = ""
		}
	}

	entities := make(map[string]string)
	if !standalone && (externalIDPattern.Match(doctype) || paramRefPattern.Match(doctype)) {
		for _, m := range entityRefPattern.FindAllSubmatch(data, -1) {
			if name := string(m[1]); !predefinedEntities[name] {
				entities[name] = ""
			}
		}
	}
	maps.Copy(entities, declared)

	for _, name := range markup {
		if !balanced(declared[name], entities) && bytes.Contains(data, []byte("&"+name+";")) {
			return fmt.Errorf("%w: &%s;", errUnbalancedEntity, name)
		}
	}

	if len(entities) > 0 {
		d.Entity = entities
	}
	return nil
}

// balanced は実体の置換テキストが要素内容として開始タグと終了タグの対応が取れているかを返します
func balanced(value string, entities map[string]string) bool {
	d := xml.NewDecoder(strings.NewReader("<e>" + value + "</e>"))
	d.Strict = true
	d.Entity = make(map[string]string, len(entities))
	for name := range entities {
		d.Entity[name] = ""
	}

	var open []string
	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			return len(open) == 0
		}
		if err != nil {
			return false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			open = append(open, rawName(t.Name))
		case xml.EndElement:
			if len(open) == 0 || open[len(open)-1] != rawName(t.Name) {
				return false
			}
			open = open[:len(open)-1]
		}
	}
}

func checkDuplicateAttrs(el xml.StartElement) error {
	if len(el.Attr) < 2 {
		return nil
	}
	seen := make(map[string]struct{}, len(el.Attr))
	for _, a := range el.Attr {
		key := rawName(a.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("属性 %q が重複しています", key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// rawName は接頭辞付きの名前を返します（RawToken は接頭辞を Space に保持する）
func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func hasKey(m map[string]string, key string) bool {
	_, ok := m[key]
	return ok
}

func hasUTF16BOM(head []byte) bool {
	return bytes.HasPrefix(head, []byte{0xFE, 0xFF}) || bytes.HasPrefix(head, []byte{0xFF, 0xFE})
}
