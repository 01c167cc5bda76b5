package main

import (
	"bufio"
	"io"
	"iter"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/ezrec/intcode/vm"
)

// readInts yields the integers of a comma or whitespace separated stream.
// A token that is not an integer ends the stream.
func readInts(r io.Reader) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Split(bufio.ScanWords)
		for scanner.Scan() {
			for _, token := range strings.Split(scanner.Text(), ",") {
				if token == "" {
					continue
				}
				value, err := strconv.ParseInt(token, 10, 64)
				if err != nil {
					log.Printf("intcode: %v", f("input %q: %v", token, vm.ErrParse))
					return
				}
				if !yield(value) {
					return
				}
			}
		}
	}
}

// haltOnInterrupt requests a halt of the machines on SIGINT until stop is
// called.
func haltOnInterrupt(machines ...*vm.Vm) (stop func()) {
	sig := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sig, os.Interrupt)

	go func() {
		for {
			select {
			case <-sig:
				for _, machine := range machines {
					machine.Halt()
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sig)
		close(done)
	}
}
