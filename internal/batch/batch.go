// Package batch solves geodesic problems read one per line from a stream,
// writing one result line per input line.
//
// The input formats are
//
//	direct:  lat1 lon1 azi1 s12  ->  lat2 lon2 azi2
//	inverse: lat1 lon1 lat2 lon2 ->  azi1 azi2 s12
//	line:    s12                 ->  lat2 lon2 azi2
//
// Angles may be given in decimal degrees or DMS notation. With Full set,
// every output line is a complete geodesic "lat1 lon1 azi1 lat2 lon2 azi2
// s12". A record that cannot be solved produces "ERROR: <reason>" so output
// lines stay aligned with input lines.
package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/stream"

	"github.com/geodkit/geodesic"
	"github.com/geodkit/geodesic/internal/config"
	"github.com/geodkit/geodesic/internal/dms"
	"github.com/geodkit/geodesic/internal/logging"
)

// maxLine bounds a single input record.
const maxLine = 1 << 20

var errIncomplete = errors.New("incomplete input")

// Options configures a Processor. Mode is required; a nil Ellipsoid
// means WGS84 and fewer than one worker means one.
type Options struct {
	Mode      string // config.ModeDirect, ModeInverse or ModeLine
	Ellipsoid *geodesic.Ellipsoid

	// Start of the fixed geodesic in line mode.
	Lat1, Lon1, Azi1 float64

	Precision int // 0..9, relative to 1 m
	DMS       bool
	Full      bool
	Workers   int

	Cache   *Cache
	Metrics *Metrics
	Logger  *slog.Logger
}

// OptionsFromConfig builds Options from c, decoding the line start point.
// Cache, Metrics and Logger are left for the caller.
func OptionsFromConfig(c *config.Config) (Options, error) {
	e, err := c.Ellipsoid.Build()
	if err != nil {
		return Options{}, err
	}
	o := Options{
		Mode:      c.Mode,
		Ellipsoid: e,
		Precision: c.Output.Precision,
		DMS:       c.Output.DMS,
		Full:      c.Output.Full,
		Workers:   c.Workers,
	}
	if c.Mode == config.ModeLine {
		o.Lat1, o.Lon1, err = dms.DecodeLatLon(c.Line.Lat1, c.Line.Lon1)
		if err != nil {
			return Options{}, fmt.Errorf("line start: %w", err)
		}
		o.Azi1, err = dms.DecodeAzimuth(c.Line.Azi1)
		if err != nil {
			return Options{}, fmt.Errorf("line start: %w", err)
		}
	}
	return o, nil
}

// Stats summarizes a Run.
type Stats struct {
	Records int // non-blank input lines
	Failed  int // lines answered with ERROR
}

// Processor solves records for one mode and ellipsoid. It is safe for
// concurrent use.
type Processor struct {
	opts Options
	form formatter
	line geodesic.Line
	log  *slog.Logger
}

// New validates opts and, in line mode, sets up the fixed geodesic.
func New(opts Options) (*Processor, error) {
	switch opts.Mode {
	case config.ModeDirect, config.ModeInverse, config.ModeLine:
	default:
		return nil, fmt.Errorf("unknown mode %q", opts.Mode)
	}
	if opts.Ellipsoid == nil {
		opts.Ellipsoid = geodesic.WGS84
	}
	opts.Precision = min(9, max(0, opts.Precision))
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	p := &Processor{
		opts: opts,
		form: formatter{prec: opts.Precision, dms: opts.DMS},
		log:  opts.Logger,
	}
	if p.log == nil {
		p.log = logging.Discard().Logger
	}
	if opts.Mode == config.ModeLine {
		l, err := opts.Ellipsoid.Line(opts.Lat1, opts.Lon1, opts.Azi1)
		if err != nil {
			return nil, err
		}
		p.line = l
	}
	return p, nil
}

// Run reads records from r until EOF and writes one line per input line
// to w. Records are solved by up to Options.Workers goroutines while the
// output keeps the input order. Per-record failures are reported inline
// and counted in Stats; the error is for I/O failures and cancellation.
func (p *Processor) Run(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	var (
		stats Stats
		werr  error
		n     int
	)
	bw := bufio.NewWriter(w)
	emit := func(s string) {
		if werr != nil {
			return
		}
		if _, err := bw.WriteString(s); err != nil {
			werr = err
			return
		}
		werr = bw.WriteByte('\n')
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	s := stream.New().WithMaxGoroutines(p.opts.Workers)
	for sc.Scan() {
		if ctx.Err() != nil {
			break
		}
		n++
		text, lineNo := sc.Text(), n
		if strings.TrimSpace(text) == "" {
			s.Go(func() stream.Callback { return func() { emit("") } })
			continue
		}
		s.Go(func() stream.Callback {
			out, err := p.Solve(text)
			return func() {
				stats.Records++
				if err != nil {
					stats.Failed++
					p.log.Debug("record failed", "line", lineNo, "error", err)
					out = "ERROR: " + err.Error()
				}
				emit(out)
			}
		})
	}
	s.Wait()

	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read input: %w", err)
	}
	if err := ctx.Err(); err != nil {
		_ = bw.Flush()
		return stats, err
	}
	if werr != nil {
		return stats, fmt.Errorf("write output: %w", werr)
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}
	p.log.Info("batch complete", "mode", p.opts.Mode, "records", stats.Records, "failed", stats.Failed)
	return stats, nil
}

// Solve solves a single record and returns the formatted result line.
func (p *Processor) Solve(text string) (string, error) {
	fields := strings.Fields(text)
	key := p.opts.Mode + ":" + strings.Join(fields, " ")
	if out, ok := p.opts.Cache.Get(key); ok {
		p.opts.Metrics.cacheLookup(true)
		p.opts.Metrics.record(p.opts.Mode, nil, 0)
		return out, nil
	}
	if p.opts.Cache != nil {
		p.opts.Metrics.cacheLookup(false)
	}

	start := time.Now()
	var (
		out string
		err error
	)
	switch p.opts.Mode {
	case config.ModeInverse:
		out, err = p.inverse(fields)
	case config.ModeLine:
		out, err = p.position(fields)
	default:
		out, err = p.direct(fields)
	}
	if errors.Is(err, errIncomplete) {
		err = fmt.Errorf("%w: %s", errIncomplete, strings.TrimSpace(text))
	}
	p.opts.Metrics.record(p.opts.Mode, err, time.Since(start))
	if err != nil {
		return "", err
	}
	if cerr := p.opts.Cache.Set(key, out); cerr != nil {
		p.log.Warn("cache store failed", "error", cerr)
	}
	return out, nil
}

func (p *Processor) direct(fields []string) (string, error) {
	if len(fields) < 4 {
		return "", errIncomplete
	}
	lat1, lon1, err := dms.DecodeLatLon(fields[0], fields[1])
	if err != nil {
		return "", err
	}
	azi1, err := dms.DecodeAzimuth(fields[2])
	if err != nil {
		return "", err
	}
	s12, err := parseDistance(fields[3])
	if err != nil {
		return "", err
	}
	r, err := p.opts.Ellipsoid.Direct(lat1, lon1, azi1, s12)
	if err != nil {
		return "", err
	}
	return p.directLine(lat1, lon1, azi1, s12, r), nil
}

func (p *Processor) position(fields []string) (string, error) {
	if len(fields) < 1 {
		return "", errIncomplete
	}
	s12, err := parseDistance(fields[0])
	if err != nil {
		return "", err
	}
	r, err := p.line.Position(s12)
	if err != nil {
		return "", err
	}
	return p.directLine(p.opts.Lat1, p.opts.Lon1, p.opts.Azi1, s12, r), nil
}

func (p *Processor) directLine(lat1, lon1, azi1, s12 float64, r geodesic.DirectResult) string {
	var b strings.Builder
	if p.opts.Full {
		b.WriteString(p.form.latLon(lat1, lon1))
		b.WriteByte(' ')
		b.WriteString(p.form.azimuth(azi1))
		b.WriteByte(' ')
	}
	b.WriteString(p.form.latLon(r.Lat2, r.Lon2))
	b.WriteByte(' ')
	b.WriteString(p.form.azimuth(r.Azi2))
	if p.opts.Full {
		b.WriteByte(' ')
		b.WriteString(p.form.distance(s12))
	}
	return b.String()
}

func (p *Processor) inverse(fields []string) (string, error) {
	if len(fields) < 4 {
		return "", errIncomplete
	}
	lat1, lon1, err := dms.DecodeLatLon(fields[0], fields[1])
	if err != nil {
		return "", err
	}
	lat2, lon2, err := dms.DecodeLatLon(fields[2], fields[3])
	if err != nil {
		return "", err
	}
	r, err := p.opts.Ellipsoid.Inverse(lat1, lon1, lat2, lon2)
	if err != nil {
		return "", err
	}
	p.opts.Metrics.iterations(r.Iterations)
	p.log.Debug("inverse iterations", "newton", r.Iterations.Newton, "bisection", r.Iterations.Bisection)

	var b strings.Builder
	if p.opts.Full {
		b.WriteString(p.form.latLon(lat1, lon1))
		b.WriteByte(' ')
	}
	b.WriteString(p.form.azimuth(r.Azi1))
	b.WriteByte(' ')
	if p.opts.Full {
		b.WriteString(p.form.latLon(lat2, lon2))
		b.WriteByte(' ')
	}
	b.WriteString(p.form.azimuth(r.Azi2))
	b.WriteByte(' ')
	b.WriteString(p.form.distance(r.S12))
	return b.String(), nil
}

func parseDistance(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad distance %q", s)
	}
	return v, nil
}
