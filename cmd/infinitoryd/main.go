// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"log"
	"os"

	"github.com/NVIDIA/infinitory/pkg/api"
	"github.com/NVIDIA/infinitory/pkg/logging"
)

// version is set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	logging.SetDefaultStructuredLogger("infinitoryd", version)

	dir := os.Getenv("INFINITORY_OUTPUT")
	if dir == "" {
		dir = "report"
	}

	if err := api.Serve(context.Background(), api.Options{Dir: dir, Version: version}); err != nil {
		log.Fatal(err)
	}
}
