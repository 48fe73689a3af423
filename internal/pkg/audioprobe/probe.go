package audioprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// ErrNotAudio is returned when the probed file is not a decodable audio container.
var ErrNotAudio = errors.New("file is not decodable audio")

// Metadata is the per-file result of a probe. Numeric fields are nil when the
// container does not expose them (e.g. bit depth for lossy formats).
type Metadata struct {
	FileFormat      string            `json:"file_format"`
	SampleRate      *int              `json:"sample_rate"`
	BitDepth        *int              `json:"bit_depth"`
	DurationSeconds *float64          `json:"duration_seconds"`
	Channels        *int              `json:"channels"`
	Tags            map[string]string `json:"tags,omitempty"`
}

type Prober interface {
	Probe(ctx context.Context, path string) (*Metadata, error)
}

// FFProbe shells out to ffprobe. The binary path and timeout come from config;
// callers should run AssertReady once at startup.
type FFProbe struct {
	binPath string
	timeout time.Duration
}

func NewFFProbe(binPath string, timeout time.Duration) *FFProbe {
	if binPath == "" {
		binPath = "ffprobe"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FFProbe{binPath: binPath, timeout: timeout}
}

func (p *FFProbe) AssertReady() error {
	if _, err := exec.LookPath(p.binPath); err != nil {
		return fmt.Errorf("missing required binary %q in PATH: %w", p.binPath, err)
	}
	return nil
}

func (p *FFProbe) Probe(ctx context.Context, path string) (*Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.binPath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ffprobe timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s", ErrNotAudio, strings.TrimSpace(stderr.String()))
	}

	return ParseOutput(stdout.Bytes())
}

// ffprobe emits numbers as JSON strings in several places; keep the raw
// shapes here and convert below.
type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType        string `json:"codec_type"`
	SampleRate       string `json:"sample_rate"`
	Channels         int    `json:"channels"`
	BitsPerSample    int    `json:"bits_per_sample"`
	BitsPerRawSample string `json:"bits_per_raw_sample"`
}

type probeFormat struct {
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	Tags       map[string]string `json:"tags"`
}

// ParseOutput converts raw `ffprobe -print_format json` output into Metadata.
func ParseOutput(raw []byte) (*Metadata, error) {
	var out probeOutput
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	var audio *probeStream
	for i := range out.Streams {
		if out.Streams[i].CodecType == "audio" {
			audio = &out.Streams[i]
			break
		}
	}
	if audio == nil {
		return nil, ErrNotAudio
	}

	md := &Metadata{
		FileFormat: normalizeFormat(out.Format.FormatName),
		Tags:       out.Format.Tags,
	}

	if v, err := strconv.Atoi(audio.SampleRate); err == nil && v > 0 {
		md.SampleRate = &v
	}
	if audio.Channels > 0 {
		ch := audio.Channels
		md.Channels = &ch
	}
	if audio.BitsPerSample > 0 {
		bd := audio.BitsPerSample
		md.BitDepth = &bd
	} else if v, err := strconv.Atoi(audio.BitsPerRawSample); err == nil && v > 0 {
		md.BitDepth = &v
	}
	if v, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil && v > 0 {
		md.DurationSeconds = &v
	}

	return md, nil
}

// normalizeFormat maps ffprobe's format_name (sometimes a comma list like
// "mov,mp4,m4a,3gp,3g2,mj2") to a single upper-case label.
func normalizeFormat(name string) string {
	if name == "" {
		return ""
	}
	first := name
	if i := strings.IndexByte(name, ','); i > 0 {
		first = name[:i]
	}
	return strings.ToUpper(first)
}
