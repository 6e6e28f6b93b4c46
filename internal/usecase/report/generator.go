// Package report はレポート生成機能を提供します
package report

import (
	"fmt"
	"io"

	"XMLScope/internal/domain/model"
	"XMLScope/internal/infrastructure/filesystem"
)

// Generator はレポート生成機能を提供します
type Generator struct {
	fsys filesystem.FileSystem
}

// NewGenerator は新しい Generator インスタンスを作成します
func NewGenerator(fsys filesystem.FileSystem) *Generator {
	if fsys == nil {
		fsys = filesystem.OS{}
	}
	return &Generator{fsys: fsys}
}

// CreateOutputFile は出力ファイルを空の状態で作成します。
// 既存のファイルがあれば内容を切り詰めます。
func (g *Generator) CreateOutputFile(outputPath string) (io.WriteCloser, error) {
	outputFile, err := g.fsys.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("出力ファイルの作成に失敗しました: %w", err)
	}
	return outputFile, nil
}

// WriteResult は判定結果を "<path>",<status> の1行として書き込みます。
// パスはエスケープせずにそのまま出力します。
func (g *Generator) WriteResult(writer io.Writer, result model.ClassificationResult) error {
	if _, err := fmt.Fprintf(writer, "\"%s\",%s\n", result.Path, result.Status); err != nil {
		return fmt.Errorf("レポートの書き込みに失敗しました: %w", err)
	}
	return nil
}
