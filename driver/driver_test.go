// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package driver_test

import (
	"testing"

	"gviegas/present/driver"
	_ "gviegas/present/driver/soft"
)

func TestDrivers(t *testing.T) {
	drivers := driver.Drivers()
	if len(drivers) == 0 {
		t.Fatalf("Drivers:\nhave none\nwant at least the soft driver")
	}
	var soft driver.Driver
	for i := range drivers {
		if drivers[i].Name() == "soft" {
			soft = drivers[i]
			break
		}
	}
	if soft == nil {
		t.Fatalf("Drivers:\nhave %v\nwant a driver named \"soft\"", drivers)
	}
	dev, err := soft.Open()
	if dev == nil || err != nil {
		t.Fatalf("Driver.Open:\nhave %v, %v\nwant non-nil, nil", dev, err)
	}
	dev2, err := soft.Open()
	if dev2 != dev || err != nil {
		t.Fatalf("Driver.Open (again):\nhave %v, %v\nwant same device, nil", dev2, err)
	}
	soft.Close()
	dev3, err := soft.Open()
	if dev3 == nil || err != nil {
		t.Fatalf("Driver.Open (after close):\nhave %v, %v\nwant non-nil, nil", dev3, err)
	}
	soft.Close()
}
