package filesystem

import (
	"io"
	"io/fs"
	"os"
)

// FileSystem はホストOSのファイルシステム操作を抽象化するインターフェースです
type FileSystem interface {
	// Stat はシンボリックリンクを辿ってファイル情報を返します
	Stat(name string) (fs.FileInfo, error)
	// ReadDir はディレクトリのエントリを名前順で返します
	ReadDir(name string) ([]fs.DirEntry, error)
	// Open はファイルを読み込み用に開きます
	Open(name string) (io.ReadCloser, error)
	// Create はファイルを空にして書き込み用に開きます（存在しなければ作成）
	Create(name string) (io.WriteCloser, error)
}

// OS は os パッケージによる FileSystem の実装です
type OS struct{}

func (OS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (OS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (OS) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (OS) Create(name string) (io.WriteCloser, error) {
	return os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}
