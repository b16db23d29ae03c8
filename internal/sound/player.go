// Package sound 播放计时器的提示音。
//
// 提示音按名称从资源库中解析（先找 <name>.wav，再找 <name>.mp3）。
// 任何解析或播放失败都只记录日志，并立即通知调用方播放已完成。
package sound

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

//go:embed assets/*.wav
var embedded embed.FS

// DefaultAssets 应用内置的提示音
func DefaultAssets() fs.FS {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

const (
	sampleRate beep.SampleRate = 44100
	// 低于该音量视为静音
	silentVolume = -10
)

var errCueNotFound = errors.New("cue not found")

func log() *slog.Logger {
	return slog.With("component", "sound.Player")
}

// output 音频输出设备，默认使用 beep/speaker
type output interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
}

type speakerOutput struct{}

func (speakerOutput) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }

func (speakerOutput) Clear() { speaker.Clear() }

type Options struct {
	Enabled bool
	Volume  float64
	// AssetDir 非空时从该目录加载提示音，否则使用内置资源
	AssetDir string
}

// Player 提示音播放器，同一时间最多播放一个提示音
type Player struct {
	assets  fs.FS
	enabled bool
	volume  float64
	out     output

	initOnce sync.Once
	initErr  error

	mu      sync.Mutex
	buffers map[string]*beep.Buffer
	current *playback
}

type playback struct {
	cue  string
	done chan struct{}
	once sync.Once
}

func (pb *playback) complete() {
	pb.once.Do(func() { close(pb.done) })
}

func NewPlayer(opts Options) *Player {
	assets := DefaultAssets()
	if opts.AssetDir != "" {
		assets = os.DirFS(opts.AssetDir)
	}
	return newPlayer(assets, opts, speakerOutput{})
}

func newPlayer(assets fs.FS, opts Options, out output) *Player {
	return &Player{
		assets:  assets,
		enabled: opts.Enabled,
		volume:  opts.Volume,
		out:     out,
		buffers: make(map[string]*beep.Buffer),
	}
}

// Play 播放指定提示音，返回的通道在播放结束、被 Stop 或无法播放时关闭
func (p *Player) Play(cue string) <-chan struct{} {
	pb := &playback{cue: cue, done: make(chan struct{})}
	if !p.enabled {
		pb.complete()
		return pb.done
	}

	buffer, err := p.load(cue)
	if err != nil {
		log().Warn("can't load cue, skipping", "cue", cue, "error", err)
		pb.complete()
		return pb.done
	}
	if err := p.initSpeaker(); err != nil {
		log().Warn("can't initialize speaker, skipping cue", "cue", cue, "error", err)
		pb.complete()
		return pb.done
	}

	// 创建音量控制器
	volumeCtrl := &effects.Volume{
		Streamer: buffer.Streamer(0, buffer.Len()),
		Base:     2,
		Volume:   p.volume,
		Silent:   p.volume <= silentVolume,
	}

	p.mu.Lock()
	previous := p.current
	p.current = pb
	p.mu.Unlock()
	if previous != nil {
		p.out.Clear()
		previous.complete()
	}

	log().Debug("playing cue", "cue", cue)
	p.out.Play(beep.Seq(volumeCtrl, beep.Callback(func() {
		p.finished(pb)
	})))
	return pb.done
}

// Stop 停止正在播放的提示音，没有提示音时什么也不做
func (p *Player) Stop() {
	p.mu.Lock()
	current := p.current
	p.current = nil
	p.mu.Unlock()

	if current == nil {
		return
	}
	p.out.Clear()
	current.complete()
	log().Debug("cue stopped", "cue", current.cue)
}

func (p *Player) finished(pb *playback) {
	p.mu.Lock()
	if p.current == pb {
		p.current = nil
	}
	p.mu.Unlock()
	pb.complete()
}

func (p *Player) initSpeaker() error {
	p.initOnce.Do(func() {
		p.initErr = p.out.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	return p.initErr
}

// load 解码提示音并缓存到内存
func (p *Player) load(cue string) (*beep.Buffer, error) {
	p.mu.Lock()
	buffer, ok := p.buffers[cue]
	p.mu.Unlock()
	if ok {
		return buffer, nil
	}

	streamer, format, err := p.decode(cue)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	var source beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		source = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}
	buffer = beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	buffer.Append(source)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decoding cue %q: %w", cue, err)
	}

	p.mu.Lock()
	p.buffers[cue] = buffer
	p.mu.Unlock()
	return buffer, nil
}

func (p *Player) decode(cue string) (beep.StreamSeekCloser, beep.Format, error) {
	decoders := []struct {
		ext    string
		decode func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)
	}{
		{".wav", func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(rc) }},
		{".mp3", mp3.Decode},
	}

	for _, d := range decoders {
		f, err := p.assets.Open(cue + d.ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("opening cue %q: %w", cue, err)
		}
		streamer, format, err := d.decode(f)
		if err != nil {
			f.Close()
			return nil, beep.Format{}, fmt.Errorf("decoding cue %q: %w", cue+d.ext, err)
		}
		return streamer, format, nil
	}
	return nil, beep.Format{}, fmt.Errorf("%q: %w", cue, errCueNotFound)
}
