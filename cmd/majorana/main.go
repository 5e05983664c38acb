// Command majorana drives the measurement-only parity engine from the shell.
//
//	majorana --demo basic --n 2
//	majorana --demo ghz --n 4 --seed 1 --out ghz.json
//	majorana --demo stress --poison 0.05 --p_m 0.02 --p_z 0.01
//	majorana --demo sample --trials 2000 --workers 8
//	majorana --demo replay --in ghz.json --n 6
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/theapemachine/errnie"

	"github.com/theapemachine/majorana"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		errnie.Warn("majorana: %v", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("majorana", pflag.ContinueOnError)
	flags.String("demo", "basic", "basic | ghz | stress | sample | replay")
	flags.Int("n", 2, "number of qubits (logical qubits for ghz)")
	flags.Float64("p_m", 0, "readout flip rate")
	flags.Float64("p_z", 0, "dephasing rate per idle step")
	flags.Float64("poison", 0, "quasiparticle poisoning rate per idle step")
	flags.Uint64("seed", 1, "random seed")
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.String("out", "", "write the transcript to this file")
	flags.String("format", "", "transcript format: json or yaml (default from file extension)")
	flags.String("in", "", "transcript to replay")
	flags.Int("trials", 1000, "trials for the sample demo")
	flags.Int("workers", 4, "workers for the sample demo")

	if err := flags.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	majorana.SetConfigDefaults(v)
	v.SetEnvPrefix("majorana")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return errors.Wrap(err, "bind flags")
	}

	// The flag is --poison; the config key is p_poison.
	if err := v.BindPFlag("p_poison", flags.Lookup("poison")); err != nil {
		return errors.Wrap(err, "bind flags")
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", path)
		}
	}

	switch demo := v.GetString("demo"); demo {
	case "basic":
		return demoBasic(v)
	case "ghz", "ghz-parity-only":
		return demoGHZ(v)
	case "stress":
		return demoStress(v)
	case "sample":
		return demoSample(v)
	case "replay":
		return demoReplay(v)
	default:
		return errors.Errorf("unknown demo %q", demo)
	}
}

func engineFor(v *viper.Viper, qubits int) (*majorana.Engine, error) {
	cfg, err := majorana.ConfigFromViper(v)
	if err != nil {
		return nil, err
	}

	cfg.Qubits = qubits
	majorana.WithSeed(v.GetUint64("seed"))(cfg)

	return majorana.NewEngine(cfg)
}

func sign(bit int) string {
	if bit == 0 {
		return "+1"
	}
	return "-1"
}

func demoBasic(v *viper.Viper) error {
	e, err := engineFor(v, v.GetInt("n"))
	if err != nil {
		return err
	}

	if e.N() < 2 {
		return errors.New("basic demo needs at least 2 qubits")
	}

	fmt.Printf("[basic] n=%d noise=%+v seed=%d\n", e.N(), e.Noise(), e.Seed())

	z, err := e.MZ(0)
	if err != nil {
		return err
	}
	x, err := e.MX(0)
	if err != nil {
		return err
	}
	z2, err := e.MZ(0)
	if err != nil {
		return err
	}
	fmt.Printf("Z(0)=%s  X(0)=%s  Z(0) again=%s\n", sign(z), sign(x), sign(z2))

	xx, err := e.MXX(0, 1)
	if err != nil {
		return err
	}
	zz, err := e.MZZ(0, 1)
	if err != nil {
		return err
	}
	fmt.Printf("XX(0,1)=%s  ZZ(0,1)=%s\n", sign(xx), sign(zz))

	if err := e.IdleStep(); err != nil {
		return err
	}

	return finish(v, e)
}

func demoGHZ(v *viper.Viper) error {
	n := v.GetInt("n")
	if n < 2 {
		return errors.New("ghz demo needs at least 2 logical qubits")
	}

	// Logical qubits 0..n-1, ancillas n and n+1.
	e, err := engineFor(v, n+2)
	if err != nil {
		return err
	}

	fmt.Printf("[ghz] logical=%d noise=%+v seed=%d\n", n, e.Noise(), e.Seed())

	if _, err := e.HParity(0, n); err != nil {
		return err
	}

	for t := 1; t < n; t++ {
		if _, err := e.CNOTParity(0, t, n, n+1); err != nil {
			return err
		}
	}

	for i := 0; i < n-1; i++ {
		o, err := e.MXX(i, i+1)
		if err != nil {
			return err
		}
		fmt.Printf("XX(%d,%d) = %s\n", i, i+1, sign(o))
	}

	var b strings.Builder
	for q := 0; q < n; q++ {
		o, err := e.MZ(q)
		if err != nil {
			return err
		}
		b.WriteString(strings.TrimSuffix(sign(o), "1"))
	}
	fmt.Printf("Z outcomes: %s\n", b.String())

	return finish(v, e)
}

func demoStress(v *viper.Viper) error {
	e, err := engineFor(v, v.GetInt("n"))
	if err != nil {
		return err
	}

	if e.N() < 2 {
		return errors.New("stress demo needs at least 2 qubits")
	}

	fmt.Printf("[stress] noise=%+v seed=%d\n", e.Noise(), e.Seed())

	for i := 0; i < 10; i++ {
		if _, err := e.MZZ(0, 1); err != nil {
			return err
		}
		if err := e.IdleStep(); err != nil {
			return err
		}
	}

	t := e.Transcript()
	fmt.Printf("Transcript length: %d\n", t.Len())
	if poisoned := t.Count(majorana.OpPoison); poisoned > 0 {
		fmt.Printf("Quasiparticle poisoning detected %d times and survived.\n", poisoned)
	}

	return finish(v, e)
}

// demoSample estimates P(mz(q)=1) after h_parity on |0>, which should be 1/2.
func demoSample(v *viper.Viper) error {
	cfg, err := majorana.ConfigFromViper(v)
	if err != nil {
		return err
	}
	cfg.Qubits = 2

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pool := majorana.NewPool(ctx, v.GetInt("workers"))
	defer pool.Close()

	tally, err := pool.Run(ctx, v.GetInt("trials"), cfg, func(e *majorana.Engine) (int, error) {
		if _, err := e.HParity(0, 1); err != nil {
			return 0, err
		}
		return e.MZ(0)
	}, majorana.WithSeedBase(v.GetUint64("seed")))
	if tally != nil {
		fmt.Printf("[sample] trials=%d ones=%d zeros=%d failures=%d P(1)=%.4f in %v\n",
			tally.Trials, tally.Ones, tally.Zeros, tally.Failures, tally.Fraction(), tally.Elapsed)
		fmt.Printf("metrics: %v\n", tally.Metrics.ExportMetrics())
	}

	return err
}

func demoReplay(v *viper.Viper) error {
	path := v.GetString("in")
	if path == "" {
		return errors.New("replay needs --in")
	}

	format, err := formatFor(v, path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open transcript")
	}
	defer f.Close()

	t, err := majorana.Decode(f, format)
	if err != nil {
		return err
	}

	e, err := engineFor(v, v.GetInt("n"))
	if err != nil {
		return err
	}

	if err := e.ReplayTranscript(t); err != nil {
		return err
	}

	fmt.Printf("[replay] %d entries replayed on %d qubits\n", t.Len(), e.N())
	for _, s := range e.Stabilizers() {
		fmt.Println(s)
	}

	return nil
}

// finish writes the transcript when --out is set.
func finish(v *viper.Viper, e *majorana.Engine) error {
	path := v.GetString("out")
	if path == "" {
		return nil
	}

	format, err := formatFor(v, path)
	if err != nil {
		return err
	}

	if err := writeTranscript(path, format, e.Transcript()); err != nil {
		return err
	}

	fmt.Printf("transcript: %d entries -> %s\n", e.Transcript().Len(), path)
	return nil
}

// writeTranscript reports a failed close, since that is where a short write shows up.
func writeTranscript(path string, format majorana.Format, t *majorana.Transcript) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create transcript file")
	}

	if err := t.Encode(f, format); err != nil {
		f.Close()
		return err
	}

	return errors.Wrapf(f.Close(), "close transcript file %s", path)
}

func formatFor(v *viper.Viper, path string) (majorana.Format, error) {
	if f := v.GetString("format"); f != "" {
		return majorana.ParseFormat(f)
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return majorana.FormatJSON, nil
	}

	return majorana.ParseFormat(ext)
}
