// Package ui はユーザーインターフェース機能を提供します
package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"XMLScope/internal/domain/model"
)

// ProgramName はコンソール出力に使うプログラム名です
const ProgramName = "xmlscope"

const usageText = `
%[1]s

Checks file (or collection of files in directory tree) for XML well-formedness

USAGE: %[1]s <fileIn> <fileOut>

 fileIn         : input file or directory
                    If fileIn is a directory, all files within that
                    directory and its sub-directories will be analysed
 fileOut        : output file

`

// Console は進捗・集計・エラーメッセージをコンソールへ出力します
type Console struct {
	out            io.Writer
	progressActive bool
}

// NewConsole は新しい Console インスタンスを作成します
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

// Progress は現在の処理位置を同じ行に上書きして表示します
func (c *Console) Progress(index, total int) {
	fmt.Fprintf(c.out, "Processing file %d/%d\r", index, total)
	c.progressActive = true
}

// Summary は処理件数・経過時間・処理速度を表示します
func (c *Console) Summary(summary model.RunSummary) {
	if c.progressActive {
		fmt.Fprintln(c.out)
		c.progressActive = false
	}
	seconds := strconv.FormatFloat(summary.Elapsed.Seconds(), 'f', -1, 64)
	fmt.Fprintf(c.out, "Processed  %d files in %s seconds \nAverage throughput: %d files / s \n",
		summary.FileCount, seconds, summary.Throughput)
}

// Usage は使い方を表示します
func (c *Console) Usage() {
	fmt.Fprintf(c.out, usageText, ProgramName)
}

// Fatal は処理を継続できないエラーを表示します
func (c *Console) Fatal(message string) {
	fmt.Fprintf(c.out, "ERROR (%s): %s\n", ProgramName, message)
}
