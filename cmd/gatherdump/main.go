// Command gatherdump loads a scene file and prints the view uniforms a
// frame would upload for it. With -watch it reprints on every save.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gekko3d/gather"
	"github.com/gekko3d/gather/num"
	"github.com/gekko3d/gather/render"
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	watch := flag.Bool("watch", false, "Reload and reprint when the scene file changes")
	precision := flag.Int("precision", 64, "Transform precision, 32 or 64")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gatherdump [-debug] [-watch] [-precision 32|64] scene.yaml")
		os.Exit(2)
	}
	path := flag.Arg(0)

	var err error
	switch *precision {
	case 32:
		err = run[float32](path, *debug, *watch, os.Stdout)
	case 64:
		err = run[float64](path, *debug, *watch, os.Stdout)
	default:
		err = fmt.Errorf("unsupported precision %d", *precision)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run[N num.Real](path string, debug, watch bool, out io.Writer) error {
	w := gather.NewWorld()
	gather.LoggingModule{Prefix: "gatherdump", Debug: debug, Out: os.Stderr}.Install(w)
	logger := gather.LoggerOf(w)

	scene, err := gather.LoadScene(path)
	if err != nil {
		return err
	}
	spawned, err := gather.SpawnScene[N](w, scene)
	if err != nil {
		return err
	}
	if err := dump[N](w, out); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	watcher, err := gather.WatchScene(path)
	if err != nil {
		return err
	}
	defer watcher.Close()
	logger.Infof("watching %s", path)

	for {
		select {
		case <-watcher.Events:
			scene, err := gather.LoadScene(path)
			if err != nil {
				logger.Warnf("reload: %v", err)
				continue
			}
			next, err := gather.ReloadScene[N](w, scene, spawned)
			if err != nil {
				logger.Warnf("reload: %v", err)
				continue
			}
			spawned = next
			if err := dump[N](w, out); err != nil {
				logger.Errorf("%v", err)
			}
		case err := <-watcher.Errors:
			return err
		}
	}
}

func dump[N num.Real](w *gather.World, out io.Writer) error {
	var u render.ViewUniforms[N]
	f, err := u.Gather(w)
	if err != nil {
		return err
	}
	cam := f.Camera

	fmt.Fprintf(out, "camera:   %v (entity %v)\n", cam.Source, cam.Entity)
	fmt.Fprintf(out, "position: %v\n", cam.CameraPosition)
	fmt.Fprintf(out, "proj:     %v\n", cam.ProjView.Proj)
	fmt.Fprintf(out, "view:     %v\n", cam.ProjView.View)
	fmt.Fprintf(out, "ambient:  %v\n", f.Ambient)
	fmt.Fprint(out, hex.Dump(u.Encode(f)))
	return nil
}
