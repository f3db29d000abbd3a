package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-soundclock/internal/config"
	"github.com/cwbudde/algo-soundclock/internal/playback"
	"github.com/cwbudde/algo-soundclock/internal/speaker"
	"github.com/cwbudde/algo-soundclock/timecode"
	"github.com/cwbudde/algo-soundclock/wavio"
)

// codecFlags are the codec settings every command can override.
type codecFlags struct {
	mapping   string
	harmonics int
	float     bool
}

func (env *environment) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	return fs
}

func (env *environment) bindCodecFlags(fs *flag.FlagSet) *codecFlags {
	cf := &codecFlags{}
	fs.StringVar(&cf.mapping, "mapping", env.cfg.MinuteMapping.String(), "minute mapping: quantized or continuous")
	fs.IntVar(&cf.harmonics, "harmonics", env.cfg.Harmonics, "number of hour-tone overtones to add")
	fs.BoolVar(&cf.float, "float", env.cfg.FloatWAV, "write 32-bit float instead of 16-bit PCM")
	return cf
}

// resolve applies flag overrides on top of the loaded configuration.
func (cf *codecFlags) resolve(base config.Config) (config.Config, error) {
	cfg := base
	m, err := timecode.ParseMinuteMapping(cf.mapping)
	if err != nil {
		return cfg, err
	}
	cfg.MinuteMapping = m
	cfg.Harmonics = cf.harmonics
	cfg.FloatWAV = cf.float
	return cfg, cfg.Validate()
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

func runEncode(_ context.Context, env *environment, args []string) error {
	fs := env.newFlagSet("encode")
	at := fs.String("time", "", "time to encode, HH:MM[:SS] (default: now)")
	out := fs.String("o", "soundclock.wav", "output WAV file")
	cf := env.bindCodecFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := cf.resolve(env.cfg)
	if err != nil {
		return err
	}

	ct := timecode.FromTime(time.Now())
	if *at != "" {
		if ct, err = timecode.ParseClockTime(*at); err != nil {
			return err
		}
	}

	enc, err := timecode.NewEncoder(cfg.TimecodeOptions()...)
	if err != nil {
		return err
	}
	samples, err := enc.Encode(ct)
	if err != nil {
		return err
	}

	if err := writeWAV(*out, samples, cfg); err != nil {
		return err
	}
	env.logger.Info("encoded", "time", ct, "samples", len(samples), "file", *out)
	return nil
}

func runRange(ctx context.Context, env *environment, args []string) error {
	fs := env.newFlagSet("range")
	from := fs.String("from", "", "first time, HH:MM[:SS]")
	to := fs.String("to", "", "last time, HH:MM[:SS]")
	step := fs.Int("step", 1, "seconds between frames")
	out := fs.String("o", "soundclock-range.wav", "output WAV file")
	cf := env.bindCodecFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if *from == "" || *to == "" {
		fmt.Fprintln(env.stderr, "range: -from and -to are required")
		return errUsage
	}

	cfg, err := cf.resolve(env.cfg)
	if err != nil {
		return err
	}

	start, err := timecode.ParseClockTime(*from)
	if err != nil {
		return err
	}
	end, err := timecode.ParseClockTime(*to)
	if err != nil {
		return err
	}

	enc, err := timecode.NewEncoder(cfg.TimecodeOptions()...)
	if err != nil {
		return err
	}

	times := timecode.Span(start, end, *step)
	samples, err := enc.EncodeRange(ctx, times)
	if err != nil {
		return err
	}

	if err := writeWAV(*out, samples, cfg); err != nil {
		return err
	}
	env.logger.Info("encoded range", "from", start, "to", end, "frames", len(times), "file", *out)
	return nil
}

func runDecode(ctx context.Context, env *environment, args []string) error {
	fs := env.newFlagSet("decode")
	verbose := fs.Bool("v", false, "print per-window analysis")
	free := fs.Bool("free-base", false, "search every instrument base for every hour")
	cf := env.bindCodecFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(env.stderr, "decode: exactly one WAV file is required")
		return errUsage
	}

	cfg, err := cf.resolve(env.cfg)
	if err != nil {
		return err
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	audio, err := wavio.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}

	opts := cfg.TimecodeOptions()
	opts = append(opts, timecode.WithSampleRate(float64(audio.SampleRate)))
	if *free {
		opts = append(opts, timecode.WithFreeBaseSearch())
	}

	dec, err := timecode.NewDecoder(opts...)
	if err != nil {
		return err
	}

	rep := dec.Analyze(ctx, audio.Samples)
	if *verbose {
		printReport(env, rep)
	}

	if rep.Err != nil {
		if errors.Is(rep.Err, timecode.ErrInsufficientData) || errors.Is(rep.Err, timecode.ErrNoMatch) {
			fmt.Fprintln(env.stdout, "no confident decode")
			env.logger.Debug("decode failed", "reason", rep.Err)
			return nil
		}
		return rep.Err
	}

	est := rep.Estimate
	fmt.Fprintf(env.stdout, "%02d:%02d\n", est.Hour, est.Minute)
	env.logger.Info("decoded", "estimate", est.String(), "pulses", est.Pulses)
	return nil
}

func printReport(env *environment, rep timecode.Report) {
	tw := tabwriter.NewWriter(env.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tOffset\tRMS dB\tPeaks Hz\tBest\tError Hz\tPulses\tMatch\n")
	fmt.Fprintf(tw, "------\t------\t------\t--------\t----\t--------\t------\t-----\n")
	for _, w := range rep.Windows {
		peaks := "-"
		if len(w.Peaks) > 0 {
			peaks = fmt.Sprintf("%.1f", w.Peaks[0].Frequency)
			if len(w.Peaks) > 1 {
				peaks += fmt.Sprintf(",%.1f", w.Peaks[1].Frequency)
			}
		}
		best := "-"
		if len(w.Peaks) > 0 {
			best = fmt.Sprintf("%02d:%02d", w.Best.Hour, w.Best.Minute)
		}
		fmt.Fprintf(tw, "%d\t%d\t%.1f\t%s\t%s\t%.2f\t%d\t%v\n",
			w.Index, w.Offset, w.Level.RMSdB, peaks, best, w.Best.ErrorHz, w.Pulses, w.Matched)
	}
	tw.Flush()
}

func runPlay(ctx context.Context, env *environment, args []string) error {
	fs := env.newFlagSet("play")
	dur := fs.Duration("for", 0, "stop after this long (default: until interrupted)")
	cf := env.bindCodecFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := cf.resolve(env.cfg)
	if err != nil {
		return err
	}

	enc, err := timecode.NewEncoder(cfg.TimecodeOptions()...)
	if err != nil {
		return err
	}
	spk, err := speaker.New(int(cfg.SampleRate))
	if err != nil {
		return err
	}

	sched := playback.NewScheduler(func(ctx context.Context, now time.Time) error {
		ct := timecode.FromTime(now)
		samples, err := enc.Encode(ct)
		if err != nil {
			return err
		}
		env.logger.Debug("tick", "time", ct)
		return spk.Play(ctx, samples)
	}, playback.WithLogger(env.logger))

	if *dur > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *dur)
		defer cancel()
	}

	sched.Start()
	env.logger.Info("playing", "mapping", cfg.MinuteMapping, "harmonics", cfg.Harmonics)
	<-ctx.Done()
	return sched.Stop()
}

func runTable(_ context.Context, env *environment, args []string) error {
	fs := env.newFlagSet("table")
	cf := env.bindCodecFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	cfg, err := cf.resolve(env.cfg)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(env.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\tHours\tShape\tBase Hz\tHour Hz\tMinute Hz (:00-:55)\n")
	fmt.Fprintf(tw, "----\t-----\t-----\t-------\t-------\t-------------------\n")
	for _, in := range timecode.Instruments() {
		lo := timecode.HourFrequency(in.BaseHz, in.HourLow)
		hi := timecode.HourFrequency(in.BaseHz, in.HourHigh-1)
		mLo := timecode.MinuteFrequency(cfg.MinuteMapping, in.BaseHz, in.HourLow, 0)
		mHi := timecode.MinuteFrequency(cfg.MinuteMapping, in.BaseHz, in.HourHigh-1, 55)
		fmt.Fprintf(tw, "%s\t%02d-%02d\t%s\t%.0f\t%.1f-%.1f\t%.1f-%.1f\n",
			in.Name, in.HourLow, in.HourHigh-1, in.Shape, in.BaseHz, lo, hi, mLo, mHi)
	}
	return tw.Flush()
}

func writeWAV(path string, samples []float64, cfg config.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := wavio.Encode(f, samples, int(cfg.SampleRate), cfg.WAVFormat()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
