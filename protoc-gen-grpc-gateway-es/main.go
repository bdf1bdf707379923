package main

import (
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"
	"google.golang.org/protobuf/proto"

	"github.com/czabaj/protoc-gen-grpc-gateway-es/protoc-gen-grpc-gateway-es/genes"
)

// glog registers -v and the other logging flags on flag.CommandLine.
var (
	flagOriginalNames         = flag.Bool("original_names", false, "if true, use original proto field names, otherwise convert to lowerCamelCase")
	flagOutputFilenamePattern = flag.String("outpattern", genes.DefaultOutputNamePattern, "output filename pattern")
	flagRuntimeFile           = flag.String("runtime_file", genes.DefaultRuntimeFile, "output path of the shared runtime module")
	flagDumpDescriptor        = flag.Bool("dump_request_descriptor", false, "if true, dump request descriptor")
)

func main() {
	// stdout carries the plugin response
	if err := flag.CommandLine.Set("logtostderr", "true"); err != nil {
		log.Fatalln(errors.Wrap(err, "configuring logging"))
	}
	g := genes.New()
	if term.IsTerminal(0) {
		flag.Usage()
		log.Fatalln("stdin appears to be a tty device. This tool is meant to be invoked via the protoc command via a --grpc-gateway-es_out directive.")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalln(errors.Wrap(err, "reading input"))
	}
	if err := proto.Unmarshal(data, g.Request); err != nil {
		log.Fatalln(errors.Wrap(err, "parsing input"))
	}
	if len(g.Request.FileToGenerate) == 0 {
		log.Fatalln("no files to generate")
	}
	parseFlags(g.Request.Parameter)
	g.GenerateAllFiles(&genes.Parameters{
		OriginalNames:         *flagOriginalNames,
		OutputNamePattern:     *flagOutputFilenamePattern,
		RuntimeFile:           *flagRuntimeFile,
		DumpRequestDescriptor: *flagDumpDescriptor,
	})
	data, err = proto.Marshal(g.Response)
	if err != nil {
		log.Fatalln(errors.Wrap(err, "failed to marshal output proto"))
	}
	_, err = os.Stdout.Write(data)
	if err != nil {
		log.Fatalln(errors.Wrap(err, "failed to write output proto"))
	}
}

func parseFlags(s *string) {
	if s == nil {
		return
	}
	for _, p := range strings.Split(*s, ",") {
		if p == "" {
			continue
		}
		kv := strings.SplitN(p, "=", 2)
		if len(kv) == 1 {
			if err := flag.CommandLine.Set(kv[0], "true"); err != nil {
				log.Fatalln("Cannot set flag", p, err)
			}
			continue
		}
		name, value := kv[0], kv[1]
		if err := flag.CommandLine.Set(name, value); err != nil {
			log.Fatalln("Cannot set flag", p, err)
		}
	}
}
