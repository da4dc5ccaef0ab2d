package hash

import (
	"bufio"
	"fmt"
	"os"

	"github.com/ValentinKolb/rhmap/cmd/util"
	"github.com/ValentinKolb/rhmap/lib/fastdiv"
	tblutil "github.com/ValentinKolb/rhmap/lib/table/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	digestCmd = &cobra.Command{
		Use:   "digest [text...]",
		Short: "Prints the digest of each argument (or stdin line) under the configured strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				for _, arg := range args {
					fmt.Printf("%08x  %s\n", strategy.Hash32([]byte(arg), seed), arg)
				}
				return nil
			}

			// no arguments, digest stdin line by line
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				line := scanner.Text()
				fmt.Printf("%08x  %s\n", strategy.Hash32([]byte(line), seed), line)
			}
			return scanner.Err()
		},
	}
	checkCmd = &cobra.Command{
		Use:   "check [file]",
		Short: "Hashes every input line into buckets and reports how evenly the strategy spreads them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buckets := viper.GetInt("buckets")
			if buckets < 2 {
				return fmt.Errorf("need at least 2 buckets, got %d", buckets)
			}

			in := os.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			// hash every line into its bucket
			divinfo := fastdiv.Init(uint32(buckets))
			fills := make([]float64, buckets)
			lines := 0
			scanner := bufio.NewScanner(in)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				digest := strategy.Hash32(scanner.Bytes(), seed)
				fills[fastdiv.Mod(digest, uint32(buckets), divinfo)]++
				lines++
			}
			if err := scanner.Err(); err != nil {
				return err
			}
			if lines == 0 {
				return fmt.Errorf("no input lines")
			}

			stats := tblutil.NewDistributionStats(fills)

			fmt.Printf("hashed %d lines into %d buckets (strategy %s, seed %#x)\n",
				lines, buckets, viper.GetString("hash"), seed)
			fmt.Printf("bucket fill: mean %.2f, stddev %.2f, min %.0f, max %.0f, min/max %.2f\n",
				stats.Mean, stats.StdDeviation, stats.Min, stats.Max, stats.MinMaxRatio)
			fmt.Printf("distribution quality: %.2f/1.00\n", stats.DistributionQuality)
			return nil
		},
	}
)

func init() {
	// add flags
	key := "buckets"
	checkCmd.Flags().Int(key, 1024, util.WrapString("Number of buckets to spread the digests over"))
}
