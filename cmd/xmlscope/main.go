// Package main はアプリケーションのエントリーポイントを提供します
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"XMLScope/internal/config"
	"XMLScope/internal/infrastructure/filesystem"
	"XMLScope/internal/infrastructure/logging"
	"XMLScope/internal/interface/ui"
	"XMLScope/internal/usecase/classify"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd はコマンドを組み立てます。stdout には進捗と結果、stderr にはログを出力します。
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	console := ui.NewConsole(stdout)

	return &cobra.Command{
		Use:   ui.ProgramName + " <fileIn> <fileOut>",
		Short: "Checks file (or collection of files in directory tree) for XML well-formedness",

		// 引数はすべて位置引数として扱う
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Parse(args)
			if errors.Is(err, config.ErrUsage) {
				console.Usage()
				return nil
			}

			logger := logging.NewZapLogger(stderr, logging.LevelWarn)
			defer logger.Sync() //nolint:errcheck

			fsys := filesystem.OS{}
			runner := classify.NewRunner(classify.Dependencies{
				FileSystem: fsys,
				Lister:     filesystem.NewScanner(fsys, logger),
				Reporter:   console,
				Logger:     logger,
			})

			_, err = runner.Run(cmd.Context(), cfg.InputPath, cfg.OutputPath)
			reportFatal(console, err)
			return err
		},
	}
}

// reportFatal は致命的なエラーをコンソールに表示します
func reportFatal(console *ui.Console, err error) {
	if err == nil {
		return
	}

	var setupErr *classify.SetupError
	switch {
	case errors.As(err, &setupErr) && errors.Is(err, classify.ErrInputMissing):
		console.Fatal(fmt.Sprintf("%s does not exist!", setupErr.Path))
	case errors.As(err, &setupErr) && errors.Is(err, classify.ErrOutputUnwritable):
		console.Fatal(fmt.Sprintf("%s could not be written", setupErr.Path))
	default:
		console.Fatal(err.Error())
	}
}
