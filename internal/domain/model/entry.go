// package model はドメインモデルを定義します
package model

import (
	"math"
	"time"
)

// InputKind は入力パスの種別を表します
type InputKind int

const (
	// InputMissing はパスが存在しないことを表します
	InputMissing InputKind = iota
	// InputFile は通常ファイルを表します
	InputFile
	// InputDirectory はディレクトリを表します
	InputDirectory
)

// String は種別名を返します
func (k InputKind) String() string {
	switch k {
	case InputFile:
		return "file"
	case InputDirectory:
		return "directory"
	default:
		return "missing"
	}
}

// InputSpec は正規化済みの入力パスとその種別を表します
type InputSpec struct {
	// Path は正規化済みの入力パスを表します
	Path string
	// Kind は入力パスの種別を表します
	Kind InputKind
}

// Status はファイルの判定結果を表します
type Status int

const (
	// WellFormedXML は整形式XMLとして解析できたことを表します
	WellFormedXML Status = iota
	// NotXML は解析器がエラーを返したことを表します
	NotXML
	// ReadError はファイルを開けなかった、または読み込めなかったことを表します
	ReadError
)

// String はレポートに出力するステータス文字列を返します
func (s Status) String() string {
	switch s {
	case WellFormedXML:
		return "isXML"
	case NotXML:
		return "noXML"
	default:
		return "readError"
	}
}

// ClassificationResult は1ファイル分の判定結果を表します
type ClassificationResult struct {
	// Path は列挙時のパスをそのまま保持します
	Path string
	// Status は判定結果です
	Status Status
}

// ThroughputUnavailable は処理速度を計算できない場合の値です
const ThroughputUnavailable = -9999

// RunSummary は実行全体の集計を表します
type RunSummary struct {
	// FileCount は処理したファイル数です
	FileCount int
	// Elapsed は実行開始から終了までの経過時間です
	Elapsed time.Duration
	// Throughput は1秒あたりの処理ファイル数（切り捨て）です
	Throughput int
}

// NewRunSummary はファイル数と経過時間から集計を作成します
func NewRunSummary(fileCount int, elapsed time.Duration) RunSummary {
	return RunSummary{
		FileCount:  fileCount,
		Elapsed:    elapsed,
		Throughput: ComputeThroughput(fileCount, elapsed),
	}
}

// ComputeThroughput は fileCount / elapsed を0方向に切り捨てて返します。
// 経過時間が0、または結果が有限値にならない場合は ThroughputUnavailable を返します。
func ComputeThroughput(fileCount int, elapsed time.Duration) int {
	seconds := elapsed.Seconds()
	if seconds == 0 {
		return ThroughputUnavailable
	}
	rate := float64(fileCount) / seconds
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate >= math.MaxInt64 || rate <= math.MinInt64 {
		return ThroughputUnavailable
	}
	return int(math.Trunc(rate))
}
