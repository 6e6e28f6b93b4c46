// Package filesystem はファイルシステム操作を提供します
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"XMLScope/internal/domain/model"
	"XMLScope/internal/infrastructure/logging"
)

// InputResolver は入力パスの種別判定を提供するインターフェースです
type InputResolver interface {
	ResolveInput(path string) model.InputSpec
}

// FileLister は入力パスから処理対象ファイルの一覧を作成するインターフェースです
type FileLister interface {
	InputResolver
	ListFiles(ctx context.Context, input model.InputSpec) ([]string, error)
}

// Scanner はファイルシステムを走査するための構造体です
type Scanner struct {
	fsys   FileSystem
	logger logging.Logger
}

// NewScanner は新しい Scanner インスタンスを作成します
func NewScanner(fsys FileSystem, logger logging.Logger) *Scanner {
	if fsys == nil {
		fsys = OS{}
	}
	return &Scanner{
		fsys:   fsys,
		logger: logger,
	}
}

// ResolveInput はパスが通常ファイル・ディレクトリ・存在しないのいずれかを判定します。
// 通常ファイルでもディレクトリでもないもの（デバイス等）は存在しないものとして扱います。
func (s *Scanner) ResolveInput(path string) model.InputSpec {
	spec := model.InputSpec{Path: path, Kind: model.InputMissing}

	info, err := s.fsys.Stat(path)
	if err != nil {
		return spec
	}

	switch {
	case info.IsDir():
		spec.Kind = model.InputDirectory
	case info.Mode().IsRegular():
		spec.Kind = model.InputFile
	}
	return spec
}

// ListFiles は処理対象ファイルのパス一覧を返します。
// ファイルならそのパスのみ、ディレクトリなら配下の全ファイルを再帰的に収集します。
func (s *Scanner) ListFiles(ctx context.Context, input model.InputSpec) ([]string, error) {
	switch input.Kind {
	case model.InputFile:
		return []string{input.Path}, nil
	case model.InputDirectory:
		var files []string
		if err := s.walk(ctx, input.Path, &files); err != nil {
			return nil, fmt.Errorf("ファイルシステムの走査に失敗しました: %w", err)
		}
		return files, nil
	default:
		return nil, fmt.Errorf("パス '%s' は存在しません", input.Path)
	}
}

// walk は dir 直下のファイルを先に収集し、その後サブディレクトリを名前順に走査します。
// ディレクトリへのシンボリックリンクは辿らず、一覧にも含めません。
func (s *Scanner) walk(ctx context.Context, dir string, files *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := s.fsys.ReadDir(dir)
	if err != nil {
		s.logger.Log(logging.LevelWarn, fmt.Sprintf("パス '%s' の走査中にエラー発生", dir), err)
		return nil
	}

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}

		if entry.Type()&fs.ModeSymlink != 0 && s.isDirLink(path) {
			s.logger.Log(logging.LevelDebug, fmt.Sprintf("ディレクトリへのリンクのためスキップ: %s", path), nil)
			continue
		}

		*files = append(*files, path)
	}

	for _, sub := range subdirs {
		if err := s.walk(ctx, sub, files); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) isDirLink(path string) bool {
	info, err := s.fsys.Stat(path)
	return err == nil && info.IsDir()
}
