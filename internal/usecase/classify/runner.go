// Package classify はファイルがXMLかどうかを判定し、結果をレポートへ書き出します
package classify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"XMLScope/internal/domain/model"
	"XMLScope/internal/infrastructure/filesystem"
	"XMLScope/internal/infrastructure/logging"
	"XMLScope/internal/infrastructure/xmlparser"
	"XMLScope/internal/usecase/report"
)

var (
	// ErrInputMissing は入力パスが存在しないことを表します
	ErrInputMissing = errors.New("入力パスが存在しません")
	// ErrOutputUnwritable は出力ファイルを書き込み用に開けないことを表します
	ErrOutputUnwritable = errors.New("出力ファイルに書き込めません")
)

// SetupError は処理開始前に発生した致命的なエラーです
type SetupError struct {
	Path string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// Checker は内容が整形式のXMLかどうかを判定するインターフェースです
type Checker interface {
	Check(r io.Reader) error
}

// Reporter は進捗と集計結果を表示するインターフェースです
type Reporter interface {
	Progress(index, total int)
	Summary(summary model.RunSummary)
}

// Clock は現在時刻を返すインターフェースです
type Clock interface {
	Now() time.Time
}

// SystemClock は time.Now を返す Clock です
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Dependencies は Runner が利用する外部依存です。nil のフィールドは既定の実装を使います。
type Dependencies struct {
	FileSystem filesystem.FileSystem
	Lister     filesystem.FileLister
	Checker    Checker
	Reporter   Reporter
	Clock      Clock
	Logger     logging.Logger
}

// Runner は入力の解決からレポート出力、集計までを順番に実行します
type Runner struct {
	fsys      filesystem.FileSystem
	lister    filesystem.FileLister
	checker   Checker
	generator *report.Generator
	reporter  Reporter
	clock     Clock
	logger    logging.Logger
}

// NewRunner は新しい Runner インスタンスを作成します
func NewRunner(deps Dependencies) *Runner {
	r := &Runner{
		fsys:     deps.FileSystem,
		lister:   deps.Lister,
		checker:  deps.Checker,
		reporter: deps.Reporter,
		clock:    deps.Clock,
		logger:   deps.Logger,
	}
	if r.fsys == nil {
		r.fsys = filesystem.OS{}
	}
	if r.logger == nil {
		r.logger = logging.NewNopLogger()
	}
	if r.lister == nil {
		r.lister = filesystem.NewScanner(r.fsys, r.logger)
	}
	if r.checker == nil {
		r.checker = xmlparser.NewChecker()
	}
	if r.reporter == nil {
		r.reporter = nopReporter{}
	}
	if r.clock == nil {
		r.clock = SystemClock{}
	}
	r.generator = report.NewGenerator(r.fsys)
	return r
}

// Run は inputPath 配下のファイルを1件ずつ判定し、outputPath にレポートを書き出します。
// 入力が存在しない場合や出力ファイルを開けない場合は *SetupError を返します。
// 個々のファイルの失敗はレポート上のステータスとして記録し、処理は継続します。
func (r *Runner) Run(ctx context.Context, inputPath, outputPath string) (model.RunSummary, error) {
	start := r.clock.Now()

	input := r.lister.ResolveInput(inputPath)
	if input.Kind == model.InputMissing {
		r.logger.Log(logging.LevelError, fmt.Sprintf("入力パスが存在しません: %s", inputPath), nil)
		return model.RunSummary{}, &SetupError{Path: inputPath, Err: ErrInputMissing}
	}

	outputFile, err := r.generator.CreateOutputFile(outputPath)
	if err != nil {
		r.logger.Log(logging.LevelError, fmt.Sprintf("出力ファイルを開けません: %s", outputPath), err)
		return model.RunSummary{}, &SetupError{Path: outputPath, Err: fmt.Errorf("%w: %w", ErrOutputUnwritable, err)}
	}
	r.logger.Log(logging.LevelInfo, fmt.Sprintf("出力ファイルを作成しました: %s", outputPath), nil)

	files, err := r.lister.ListFiles(ctx, input)
	if err != nil {
		outputFile.Close()
		return model.RunSummary{}, err
	}
	r.logger.Log(logging.LevelInfo, fmt.Sprintf("%d 件のファイルを処理します (%s)", len(files), input.Kind), nil)

	for i, path := range files {
		r.reporter.Progress(i+1, len(files))

		result := model.ClassificationResult{Path: path, Status: r.ClassifyFile(path)}
		if err := r.generator.WriteResult(outputFile, result); err != nil {
			outputFile.Close()
			return model.RunSummary{}, err
		}
	}

	if err := outputFile.Close(); err != nil {
		return model.RunSummary{}, fmt.Errorf("出力ファイルのクローズに失敗しました: %w", err)
	}

	summary := model.NewRunSummary(len(files), r.clock.Now().Sub(start))
	r.reporter.Summary(summary)
	r.logger.Log(logging.LevelInfo, "処理が完了しました", nil)

	return summary, nil
}

// ClassifyFile は1ファイルを判定します。開けなければ ReadError、
// 解析器がエラーを返せば理由を問わず NotXML になります。
func (r *Runner) ClassifyFile(path string) model.Status {
	file, err := r.fsys.Open(path)
	if err != nil {
		r.logger.Log(logging.LevelWarn, fmt.Sprintf("ファイル '%s' を開けません", path), err)
		return model.ReadError
	}
	defer file.Close()

	if err := r.checker.Check(file); err != nil {
		r.logger.Log(logging.LevelDebug, fmt.Sprintf("XMLではありません: %s", path), err)
		return model.NotXML
	}
	return model.WellFormedXML
}

type nopReporter struct{}

func (nopReporter) Progress(int, int) {}
func (nopReporter) Summary(model.RunSummary) {}
