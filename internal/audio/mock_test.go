package audio

import "testing"

func TestMockDeviceCounts(t *testing.T) {
	d := NewMockDevice()
	if err := d.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := d.Write(make([]float32, BlockSize)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := d.Write(make([]float32, 100)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := d.Writes(); got != 2 {
		t.Errorf("Writes() = %d, want 2", got)
	}
	if got := d.Samples(); got != BlockSize+100 {
		t.Errorf("Samples() = %d, want %d", got, BlockSize+100)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !d.Closed() {
		t.Error("Closed() = false after Close")
	}
}

func TestMockDeviceFailOn(t *testing.T) {
	d := NewMockDevice()
	d.SetFailOn(2)
	if err := d.Write(make([]float32, 10)); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := d.Write(make([]float32, 10)); err == nil {
		t.Fatal("second write should have failed")
	}
	// Failed writes do not count their samples.
	if got := d.Samples(); got != 10 {
		t.Errorf("Samples() = %d, want 10", got)
	}
}

func TestMockDeviceRejectsUseAfterClose(t *testing.T) {
	d := NewMockDevice()
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := d.Start(); err == nil {
		t.Error("Start after Close should fail")
	}
	if err := d.Write(make([]float32, 1)); err == nil {
		t.Error("Write after Close should fail")
	}
}
