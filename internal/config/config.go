// Package config はコマンドライン引数から実行設定を組み立てます
package config

import (
	"errors"
	"path/filepath"
)

// ErrUsage は必須引数が不足していることを表します
var ErrUsage = errors.New("入力パスと出力パスの2つの引数が必要です")

// Config は1回の実行に必要な設定です。作成後は変更しません。
type Config struct {
	// InputPath は調査対象のファイルまたはディレクトリです
	InputPath string
	// OutputPath はレポートの出力先ファイルです
	OutputPath string
}

// Parse は位置引数 <fileIn> <fileOut> から Config を作成します。
// 3つ目以降の引数は無視します。
func Parse(args []string) (Config, error) {
	if len(args) < 2 {
		return Config{}, ErrUsage
	}

	return Config{
		InputPath:  filepath.Clean(args[0]),
		OutputPath: filepath.Clean(args[1]),
	}, nil
}
