// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"errors"
	"testing"
)

func TestResultErr(t *testing.T) {
	for _, x := range [...]struct {
		res Result
		err error
	}{
		{Success, nil},
		{NotReady, nil},
		{Timeout, nil},
		{Incomplete, nil},
		{Suboptimal, nil},
		{ErrorOutOfHostMemory, ErrNoHostMemory},
		{ErrorOutOfDeviceMemory, ErrNoDeviceMemory},
		{ErrorInitializationFail, ErrInitFailed},
		{ErrorDeviceLost, ErrDeviceLost},
		{ErrorSurfaceLost, ErrSurface},
		{ErrorNativeWindowInUse, ErrWindowInUse},
		{ErrorOutOfDate, ErrOutOfDate},
		{ErrorValidationFailed, ErrValidation},
		{Result(-13), ErrFatal},
	} {
		if err := x.res.Err(); !errors.Is(err, x.err) {
			t.Fatalf("Result.Err (%s):\nhave %v\nwant %v", x.res, err, x.err)
		}
	}
}

func TestAsResult(t *testing.T) {
	for _, x := range [...]struct {
		err error
		res Result
	}{
		{nil, Success},
		{ErrNoHostMemory, ErrorOutOfHostMemory},
		{ErrNoDeviceMemory, ErrorOutOfDeviceMemory},
		{ErrDeviceLost, ErrorDeviceLost},
		{ErrSurface, ErrorSurfaceLost},
		{ErrWindowInUse, ErrorNativeWindowInUse},
		{ErrOutOfDate, ErrorOutOfDate},
		{ErrValidation, ErrorValidationFailed},
		{errors.New("unrelated"), ErrorInitializationFail},
	} {
		if res := AsResult(x.err); res != x.res {
			t.Fatalf("AsResult (%v):\nhave %s\nwant %s", x.err, res, x.res)
		}
	}
}

func TestResultRoundTrip(t *testing.T) {
	for _, res := range [...]Result{
		ErrorOutOfHostMemory,
		ErrorOutOfDeviceMemory,
		ErrorDeviceLost,
		ErrorSurfaceLost,
		ErrorNativeWindowInUse,
		ErrorOutOfDate,
		ErrorValidationFailed,
	} {
		if r := AsResult(res.Err()); r != res {
			t.Fatalf("AsResult(Result.Err):\nhave %s\nwant %s", r, res)
		}
	}
}

func TestIsError(t *testing.T) {
	for _, x := range [...]struct {
		res  Result
		want bool
	}{
		{Success, false},
		{NotReady, false},
		{Timeout, false},
		{Suboptimal, false},
		{ErrorOutOfHostMemory, true},
		{ErrorSurfaceLost, true},
	} {
		if b := x.res.IsError(); b != x.want {
			t.Fatalf("Result.IsError (%s):\nhave %v\nwant %v", x.res, b, x.want)
		}
	}
}
