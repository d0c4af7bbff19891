package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/park285/Cheese-Xiangqi/internal/adapter/xiangqipresenter"
	appcfg "github.com/park285/Cheese-Xiangqi/internal/config"
	"github.com/park285/Cheese-Xiangqi/internal/obslog"
	core "github.com/park285/Cheese-Xiangqi/internal/xiangqi"
	"github.com/park285/Cheese-Xiangqi/internal/xiangqibuilder"
)

// xiangqicheck replays moves given as f,r-f,r arguments and prints the result.
//
//	xiangqicheck -png out.png 1,7-4,7 1,0-2,2
func main() {
	pngPath := flag.String("png", "", "write the final board to this PNG file")
	strict := flag.Bool("strict", false, "exit non-zero on the first rejected move")
	verbose := flag.Bool("v", false, "log to stdout")
	flag.Parse()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	cfg.RenderImages = false
	logOpts := cfg.LogOptions()
	logOpts.File = false
	logOpts.Console = *verbose
	if *verbose {
		logOpts.Level = "debug"
	}
	logger, err := obslog.Init(logOpts)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()

	deps, err := xiangqibuilder.New(cfg, logger)
	if err != nil {
		log.Fatalf("xiangqi init error: %v", err)
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := deps.Service.NewGame(ctx, "")
	if err != nil {
		log.Fatalf("new game: %v", err)
	}
	fm := deps.Formatter
	id := st.SessionUUID

	rejected := 0
	for i, arg := range flag.Args() {
		from, to, err := parseMove(arg)
		if err != nil {
			fmt.Printf("%3d  %s\n", i+1, fm.InputError(err))
			rejected++
			if *strict {
				os.Exit(2)
			}
			continue
		}
		sum, err := deps.Service.Play(ctx, id, from, to)
		if err != nil {
			fmt.Printf("%3d  %s  %s\n", i+1, arg, fm.Error(err))
			rejected++
			if *strict {
				os.Exit(1)
			}
			continue
		}
		fmt.Printf("%3d  %s\n", i+1, strings.ReplaceAll(fm.Move(xiangqipresenter.ToDTOMoveSummary(sum)), "\n", "  "))
	}

	final, err := deps.Service.Status(ctx, id)
	if err != nil {
		log.Fatalf("status: %v", err)
	}
	dto := xiangqipresenter.ToDTOState(final)
	fmt.Println()
	fmt.Println(fm.Board(dto.State.Board, nil))
	fmt.Println()
	fmt.Println(fm.History(dto.Rounds))
	if c := fm.Captured(dto.Captured); c != "" {
		fmt.Println(c)
	}
	fmt.Println(fm.Status(dto))

	if *pngPath != "" {
		data, err := deps.Service.Snapshot(ctx, id)
		if err != nil {
			log.Fatalf("render: %v", err)
		}
		if err := os.WriteFile(*pngPath, data, 0o644); err != nil {
			log.Fatalf("write %s: %v", *pngPath, err)
		}
		fmt.Println(fm.Exported(*pngPath))
	}
	if rejected > 0 {
		fmt.Printf("%d move(s) rejected\n", rejected)
	}
}

func parseMove(s string) (core.Coord, core.Coord, error) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return core.Coord{}, core.Coord{}, fmt.Errorf("%q: want f,r-f,r", s)
	}
	from, err := core.ParseCoord(a)
	if err != nil {
		return core.Coord{}, core.Coord{}, err
	}
	to, err := core.ParseCoord(b)
	if err != nil {
		return core.Coord{}, core.Coord{}, err
	}
	return from, to, nil
}
