package cmd

import (
	"fmt"

	"github.com/magladko/jpamb-sub000/internal/bytecode"
	"github.com/magladko/jpamb-sub000/internal/config"
	"github.com/magladko/jpamb-sub000/internal/jerr"
	"github.com/magladko/jpamb-sub000/internal/suite"
	"github.com/magladko/jpamb-sub000/internal/syntactic"
	"github.com/magladko/jpamb-sub000/internal/verdict"
)

// engine bundles the disk-backed wiring every subcommand needs: a suite
// resolving the workdir, the opcode store built on top of it, the syntactic
// helper for debloat-related analysis, and the loaded config.
type engine struct {
	suite  suite.Suite
	store  *bytecode.Store
	helper *syntactic.Helper
	cfg    config.Config
}

func newEngine() (*engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", configPath, err)
	}
	s := suite.New(workdir)
	store := bytecode.New(s)
	helper := syntactic.New(s, store)
	return &engine{suite: s, store: store, helper: helper, cfg: cfg}, nil
}

// recoverVerdict runs fn and, if it panics with a jerr.Fatal invariant
// violation, logs it and attributes the unknown verdict instead of letting
// the panic escape — spec.md §7 category 3's "the harness catches the
// failure and attributes *".
func recoverVerdict(stage string, method fmt.Stringer, fn func() (verdict.Verdict, error)) (v verdict.Verdict, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause := jerr.Recover(r)
			logger.Error("internal invariant violation, attributing \"*\"", "stage", stage, "method", method, "error", cause)
			v, err = verdict.Unknown, nil
		}
	}()
	return fn()
}
