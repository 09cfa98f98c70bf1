//go:build linux && cgo && !headless

package sink

/*
#cgo LDFLAGS: -lasound
#include <alsa/asoundlib.h>
#include <stdlib.h>

static int setupPCM(snd_pcm_t* handle, unsigned int* rate, snd_pcm_uframes_t* period) {
    snd_pcm_hw_params_t* params;
    int dir = 0;
    int err;

    snd_pcm_hw_params_alloca(&params);
    if ((err = snd_pcm_hw_params_any(handle, params)) < 0) return err;
    if ((err = snd_pcm_hw_params_set_access(handle, params, SND_PCM_ACCESS_RW_INTERLEAVED)) < 0) return err;
    if ((err = snd_pcm_hw_params_set_format(handle, params, SND_PCM_FORMAT_S16_LE)) < 0) return err;
    if ((err = snd_pcm_hw_params_set_rate_near(handle, params, rate, 0)) < 0) return err;
    if ((err = snd_pcm_hw_params_set_channels(handle, params, 1)) < 0) return err;
    if ((err = snd_pcm_hw_params_set_periods(handle, params, 4, 0)) < 0) return err;
    if (*period > 0) {
        if ((err = snd_pcm_hw_params_set_period_size_near(handle, params, period, &dir)) < 0) return err;
    } else {
        if ((err = snd_pcm_hw_params_set_period_size_last(handle, params, period, &dir)) < 0) return err;
    }
    return snd_pcm_hw_params(handle, params);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

type alsaSink struct {
	handle *C.snd_pcm_t
	logger *zap.Logger
}

func alsaError(op string, code C.int) error {
	return fmt.Errorf("%s: %s", op, C.GoString(C.snd_strerror(code)))
}

func openALSA(opts Options) (Sink, Format, error) {
	device := opts.Device
	if device == "" {
		device = "default"
	}
	cdev := C.CString(device)
	defer C.free(unsafe.Pointer(cdev))

	var handle *C.snd_pcm_t
	if rc := C.snd_pcm_open(&handle, cdev, C.SND_PCM_STREAM_PLAYBACK, 0); rc < 0 {
		return nil, Format{}, alsaError("open "+device, rc)
	}

	rate := C.uint(opts.Format.SampleRate)
	period := C.snd_pcm_uframes_t(opts.Format.PeriodSize)
	if rc := C.setupPCM(handle, &rate, &period); rc < 0 {
		C.snd_pcm_close(handle)
		return nil, Format{}, alsaError("configure "+device, rc)
	}

	got := Format{SampleRate: int(rate), PeriodSize: int(period)}
	if got.SampleRate != opts.Format.SampleRate {
		opts.Logger.Info("device adjusted sample rate",
			zap.Int("requested", opts.Format.SampleRate),
			zap.Int("actual", got.SampleRate),
		)
	}
	return &alsaSink{handle: handle, logger: opts.Logger}, got, nil
}

func (s *alsaSink) Write(samples []int16) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	rc := C.snd_pcm_writei(s.handle, unsafe.Pointer(&samples[0]), C.snd_pcm_uframes_t(len(samples)))
	if rc < 0 {
		if rc == -C.EPIPE {
			return 0, ErrUnderrun
		}
		return 0, alsaError("write", C.int(rc))
	}
	return int(rc), nil
}

func (s *alsaSink) Recover() error {
	if rc := C.snd_pcm_prepare(s.handle); rc < 0 {
		return alsaError("prepare", rc)
	}
	return nil
}

func (s *alsaSink) Drain() error {
	if rc := C.snd_pcm_drain(s.handle); rc < 0 {
		return alsaError("drain", rc)
	}
	// drain leaves the device in SETUP; prepare it for further writes
	return s.Recover()
}

func (s *alsaSink) Close() error {
	if rc := C.snd_pcm_close(s.handle); rc < 0 {
		return alsaError("close", rc)
	}
	return nil
}
