package services

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/config"
)

// SampleRate taxa fixa do PCM retornado pela síntese de voz
const SampleRate = 24000

// MinClipBytes clipes menores que isso são tratados como silêncio ou ruído
// de toque acidental e nunca chegam à transcrição
const MinClipBytes = 2048

// WaveformBuckets resolução da prévia de forma de onda enviada ao cliente
const WaveformBuckets = 64

// ErrClipTooShort gravação abaixo do limite mínimo
var ErrClipTooShort = errors.New("gravação curta demais, descartada como silêncio")

// AudioService faz a ponte entre gravação/reprodução e o provedor
type AudioService struct {
	provider ConversationProvider
}

func NewAudioService(provider ConversationProvider) *AudioService {
	return &AudioService{provider: provider}
}

// Transcribe envia o clipe para transcrição, descartando gravações curtas
func (s *AudioService) Transcribe(ctx context.Context, data []byte, mime string) (string, error) {
	if len(data) < MinClipBytes {
		config.Logger.Debugw("clipe descartado antes da transcrição", "bytes", len(data))
		return "", ErrClipTooShort
	}

	text, err := s.provider.Transcribe(ctx, data, mime)
	if err != nil {
		config.Logger.Errorw("falha na transcrição", "error", err, "bytes", len(data), "mime", mime)
		return "", err
	}
	return text, nil
}

// SynthesizeWAV sintetiza a fala e devolve o WAV pronto para reprodução
// junto com a prévia normalizada da forma de onda
func (s *AudioService) SynthesizeWAV(ctx context.Context, text string) ([]byte, []float32, error) {
	pcm, err := s.provider.Synthesize(ctx, text)
	if err != nil {
		config.Logger.Errorw("falha na síntese de voz", "error", err, "textLength", len(text))
		return nil, nil, err
	}
	if len(pcm) < 2 {
		return nil, nil, fmt.Errorf("síntese retornou áudio vazio")
	}

	return EncodeWAV(pcm, SampleRate, 1), WaveformPreview(pcm, WaveformBuckets), nil
}

// PCM16ToFloat32 normaliza amostras PCM 16 bits little-endian para [-1, 1]
func PCM16ToFloat32(pcm []byte) []float32 {
	samples := make([]float32, len(pcm)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		samples[i] = float32(v) / 32768.0
	}
	return samples
}

// WaveformPreview reduz o PCM a buckets de amplitude de pico normalizada,
// usados apenas para a visualização no cliente
func WaveformPreview(pcm []byte, buckets int) []float32 {
	samples := PCM16ToFloat32(pcm)
	if len(samples) == 0 || buckets <= 0 {
		return nil
	}
	if buckets > len(samples) {
		buckets = len(samples)
	}

	preview := make([]float32, buckets)
	size := len(samples) / buckets
	for b := 0; b < buckets; b++ {
		start := b * size
		end := start + size
		if b == buckets-1 {
			end = len(samples)
		}
		var peak float32
		for _, v := range samples[start:end] {
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
		preview[b] = peak
	}
	return preview
}

// EncodeWAV envolve o PCM bruto em um contêiner RIFF/WAVE
func EncodeWAV(pcm []byte, sampleRate, channels int) []byte {
	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf := make([]byte, 44+len(pcm))
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+len(pcm)))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(len(pcm)))
	copy(buf[44:], pcm)
	return buf
}
