package audioprobe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutput(t *testing.T) {
	t.Run("wav with full stream info", func(t *testing.T) {
		raw := []byte(`{
			"streams": [
				{"codec_type": "audio", "sample_rate": "48000", "channels": 2, "bits_per_sample": 24}
			],
			"format": {"format_name": "wav", "duration": "120.500000", "tags": {"encoder": "Zoom F6"}}
		}`)

		md, err := ParseOutput(raw)
		require.NoError(t, err)

		assert.Equal(t, "WAV", md.FileFormat)
		require.NotNil(t, md.SampleRate)
		assert.Equal(t, 48000, *md.SampleRate)
		require.NotNil(t, md.BitDepth)
		assert.Equal(t, 24, *md.BitDepth)
		require.NotNil(t, md.DurationSeconds)
		assert.InDelta(t, 120.5, *md.DurationSeconds, 0.001)
		require.NotNil(t, md.Channels)
		assert.Equal(t, 2, *md.Channels)
		assert.Equal(t, "Zoom F6", md.Tags["encoder"])
	})

	t.Run("flac reports bits_per_raw_sample", func(t *testing.T) {
		raw := []byte(`{
			"streams": [
				{"codec_type": "audio", "sample_rate": "96000", "channels": 1, "bits_per_sample": 0, "bits_per_raw_sample": "24"}
			],
			"format": {"format_name": "flac", "duration": "31.2"}
		}`)

		md, err := ParseOutput(raw)
		require.NoError(t, err)
		assert.Equal(t, "FLAC", md.FileFormat)
		require.NotNil(t, md.BitDepth)
		assert.Equal(t, 24, *md.BitDepth)
	})

	t.Run("lossy format leaves bit depth nil", func(t *testing.T) {
		raw := []byte(`{
			"streams": [
				{"codec_type": "audio", "sample_rate": "44100", "channels": 2}
			],
			"format": {"format_name": "mp3", "duration": "183.04"}
		}`)

		md, err := ParseOutput(raw)
		require.NoError(t, err)
		assert.Equal(t, "MP3", md.FileFormat)
		assert.Nil(t, md.BitDepth)
	})

	t.Run("comma list format name keeps first entry", func(t *testing.T) {
		raw := []byte(`{
			"streams": [{"codec_type": "audio", "sample_rate": "44100", "channels": 2}],
			"format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "10"}
		}`)

		md, err := ParseOutput(raw)
		require.NoError(t, err)
		assert.Equal(t, "MOV", md.FileFormat)
	})

	t.Run("no audio stream", func(t *testing.T) {
		raw := []byte(`{
			"streams": [{"codec_type": "video", "channels": 0}],
			"format": {"format_name": "png"}
		}`)

		_, err := ParseOutput(raw)
		assert.ErrorIs(t, err, ErrNotAudio)
	})

	t.Run("garbage output", func(t *testing.T) {
		_, err := ParseOutput([]byte("not json"))
		assert.Error(t, err)
	})
}
