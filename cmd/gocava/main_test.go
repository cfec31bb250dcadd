package main

import (
	"testing"

	"github.com/noriah/gocava/config"

	"go.uber.org/zap/zapcore"
)

func TestConfigArg(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"-b", "30"}, ""},
		{[]string{"-c", "a.yaml"}, "a.yaml"},
		{[]string{"capture", "--config", "b.yaml", "-b", "4"}, "b.yaml"},
		{[]string{"--config=c.yaml"}, "c.yaml"},
		{[]string{"-c"}, ""},
	}

	for _, test := range tests {
		if got := configArg(test.args); got != test.want {
			t.Errorf("configArg(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger("debug")
	if err != nil {
		t.Fatal(err)
	}

	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug not enabled")
	}

	log, err = newLogger("warn")
	if err != nil {
		t.Fatal(err)
	}

	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info enabled at warn level")
	}

	if _, err := newLogger("loud"); err == nil {
		t.Error("expected error for a bad level")
	}
}

func TestCapturePlanKeepsTotalBars(t *testing.T) {
	cfg := config.NewZeroConfig()
	cfg.Bars = 40

	for _, stereo := range []bool{false, true} {
		cfg.Stereo = stereo

		plan := capturePlan(cfg)
		if got := plan.Bars * plan.Channels; got != cfg.Bars {
			t.Errorf("stereo=%v: plan gives %d values, want %d", stereo, got, cfg.Bars)
		}

		sess, err := cfg.Session()
		if err != nil {
			t.Fatal(err)
		}

		if plan != sess.PlanConfig() {
			t.Errorf("stereo=%v: capture plan %+v differs from session plan %+v",
				stereo, plan, sess.PlanConfig())
		}
	}
}
