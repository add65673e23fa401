package system

import (
	"os"
	"os/signal"
	"syscall"
)

// WaitForOsSignal blocks until the process is interrupted or terminated,
// so daemons can run until stopped.
func WaitForOsSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
}
