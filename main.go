package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/zeebo/blake3"

	"dilithium-sign/measure"
	"dilithium-sign/sign/dilithium"
	"dilithium-sign/sign/dilithium/accel"
)

func printAveragedStats(label string, values []float64) {
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	stdev, _ := stats.StandardDeviation(values)
	fmt.Printf("[TIME] %-8s mean=%.3fms median=%.3fms stdev=%.3fms\n", label, mean, median, stdev)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go mode= iter= engine= out=")
		os.Exit(1)
	}

	args := make(map[string]string)
	for _, arg := range os.Args[1:] {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			fmt.Printf("Invalid argument format: %s\n", arg)
			os.Exit(1)
		}
		args[parts[0]] = parts[1]
	}

	modeName, ok := args["mode"]
	if !ok {
		fmt.Println("Missing mode parameter.")
		os.Exit(1)
	}

	iterStr, ok := args["iter"]
	if !ok {
		fmt.Println("Missing iter parameter.")
		os.Exit(1)
	}

	iters, err := strconv.Atoi(iterStr)
	if err != nil || iters < 1 {
		fmt.Println("Error: Please enter a valid integer for iter.")
		os.Exit(1)
	}

	p, err := dilithium.ParameterSetByName(modeName)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	mode, err := dilithium.NewMode(p)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	engineName := args["engine"]
	switch engineName {
	case "", "software":
		engineName = "software"
	case "lattigo":
		eng, err := accel.NewLattice()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		mode = mode.WithEngine(eng)
	default:
		fmt.Printf("Unknown engine: %s\n", engineName)
		os.Exit(1)
	}

	snap := &measure.Snapshot{
		Params:  mode.Name(),
		Engine:  engineName,
		Started: time.Now(),
	}

	transcript := blake3.New()
	sig := make([]byte, p.SignatureSize())
	var seed [dilithium.SeedSize]byte

	for i := 0; i < iters; i++ {
		seed[0] = byte(i)
		seed[1] = byte(i >> 8)

		start := time.Now()
		pk, sk := mode.NewKeyFromSeed(&seed)
		snap.KeygenMs = append(snap.KeygenMs, float64(time.Since(start))/float64(time.Millisecond))

		msg := []byte(fmt.Sprintf("bench message %d", i))

		start = time.Now()
		if err := mode.SignTo(sk, msg, nil, false, sig); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		snap.SignMs = append(snap.SignMs, float64(time.Since(start))/float64(time.Millisecond))

		start = time.Now()
		okSig := mode.Verify(pk, msg, nil, sig)
		snap.VerifyMs = append(snap.VerifyMs, float64(time.Since(start))/float64(time.Millisecond))
		if !okSig {
			fmt.Printf("verification failed at iteration %d\n", i)
			os.Exit(1)
		}

		transcript.Write(sig)
	}

	snap.Digest = hex.EncodeToString(transcript.Sum(nil))

	fmt.Printf("%s engine=%s iterations=%d\n", mode.Name(), engineName, iters)
	printAveragedStats("keygen", snap.KeygenMs)
	printAveragedStats("sign", snap.SignMs)
	printAveragedStats("verify", snap.VerifyMs)
	fmt.Printf("transcript digest: %s\n", snap.Digest)

	if out, ok := args["out"]; ok {
		if err := snap.Save(out); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("snapshot written to %s\n", out)
	}
}
