package sherwood

import (
	"github.com/ValentinKolb/rhmap/lib/table"
	tabletesting "github.com/ValentinKolb/rhmap/lib/table/testing"
	"testing"
)

func Test(t *testing.T) {
	tabletesting.RunMapTests(t, "Sherwood", func() (table.Map[[]byte], error) {
		return New[[]byte](0, nil)
	})
}

func Benchmark(t *testing.B) {
	tabletesting.RunMapBenchmarks(t, "Sherwood", func() (table.Map[[]byte], error) {
		return New[[]byte](0, nil)
	})
}

/*
BENCH RESULTS (Apple M1 Max, 64GB RAM, macOS 15.3.2, go version go1.24.1 darwin/arm64):

goos: darwin
goarch: arm64
pkg: github.com/ValentinKolb/rhmap/lib/table/engines/sherwood
cpu: Apple M1 Max
Benchmark
Benchmark/Put
Benchmark/Put-10         	 9162534	       128.3 ns/op
Benchmark/PutExisting
Benchmark/PutExisting-10 	18404371	        64.52 ns/op
Benchmark/PutLargeValue
Benchmark/PutLargeValue-10         	 7425160	       158.7 ns/op
Benchmark/Get
Benchmark/Get-10                   	28945120	        41.36 ns/op
Benchmark/Get(miss)
Benchmark/Get(miss)-10             	40107966	        29.84 ns/op
Benchmark/Delete
Benchmark/Delete-10                	16258189	        72.41 ns/op
Benchmark/Walk
Benchmark/Walk-10                  	61750238	        19.47 ns/op
Benchmark/MixedUsage
Benchmark/MixedUsage-10            	15031992	        79.88 ns/op
Benchmark/ParallelTables
Benchmark/ParallelTables-10        	69884120	        14.33 ns/op	  69785310 ops/sec
PASS

Process finished with the exit code 0
*/
