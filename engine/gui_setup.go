package engine

import (
	"fmt"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
)

type resOption struct {
	W, H  int
	Label string
}

var resOptions = []resOption{
	{800, 600, "800x600 (SVGA)"},
	{1024, 768, "1024x768 (XGA)"},
	{1366, 1024, "1366x1024 (SXGA-)"},
	{1920, 1080, "1920x1080 (FHD)"},
	{2560, 1440, "2560x1440 (QHD)"},
	{3840, 2160, "3840x2160 (4K UHD)"},
}

const (
	fieldParticipant = iota
	fieldOutputDir
	fieldDatabase
	numFields
)

type setupScreen struct {
	renderer *sdl.Renderer
	font     *ttf.Font
}

func (s *setupScreen) label(text string, x, y float32, col sdl.Color) {
	if text == "" {
		return
	}
	surf, err := s.font.RenderTextBlended(text, col)
	if err != nil || surf == nil {
		return
	}
	defer surf.Destroy()
	tex, err := s.renderer.CreateTextureFromSurface(surf)
	if err != nil {
		return
	}
	r := sdl.FRect{X: x, Y: y, W: float32(surf.W), H: float32(surf.H)}
	s.renderer.RenderTexture(tex, nil, &r)
	tex.Destroy()
}

func (s *setupScreen) checkbox(text string, y float32, checked bool) {
	s.renderer.SetDrawColor(255, 255, 255, 255)
	box := sdl.FRect{X: 50, Y: y, W: 20, H: 20}
	s.renderer.RenderFillRect(&box)
	s.renderer.SetDrawColor(0, 0, 0, 255)
	s.renderer.RenderRect(&box)
	if checked {
		mark := sdl.FRect{X: 54, Y: y + 4, W: 12, H: 12}
		s.renderer.SetDrawColor(0, 150, 0, 255)
		s.renderer.RenderFillRect(&mark)
	}
	s.label(text, 80, y, sdl.Color{A: 255})
}

func fieldValue(cfg *Config, i int) *string {
	switch i {
	case fieldParticipant:
		return &cfg.Participant
	case fieldOutputDir:
		return &cfg.OutputDir
	case fieldDatabase:
		return &cfg.Database
	}
	return nil
}

func inside(x, y, left, top, right, bottom float32) bool {
	return x >= left && x <= right && y >= top && y <= bottom
}

// RunGuiSetup lets the operator enter the participant id and display options
// before a session. It returns false if the window was closed.
func RunGuiSetup(cfg *Config) bool {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		fmt.Printf("SDL_Init Error: %v\n", err)
		return false
	}
	defer sdl.Quit()

	if err := ttf.Init(); err != nil {
		fmt.Printf("TTF_Init Error: %v\n", err)
		return false
	}
	defer ttf.Quit()

	window, renderer, err := sdl.CreateWindowAndRenderer("ABColour Setup", 800, 750, 0)
	if err != nil {
		fmt.Printf("CreateWindowAndRenderer Error: %v\n", err)
		return false
	}
	defer window.Destroy()
	defer renderer.Destroy()

	fontPath := cfg.FontFile
	if fontPath == "" {
		fontPath = GetDefaultFontPath()
	}
	if fontPath == "" {
		fmt.Println("Error: No default font found for GUI setup")
		return false
	}
	guiFont, err := ttf.OpenFont(fontPath, 18)
	if err != nil {
		fmt.Printf("Failed to load GUI font: %v\n", err)
		return false
	}
	defer guiFont.Close()

	screen := &setupScreen{renderer: renderer, font: guiFont}
	focus := -1
	status := ""

	selectedRes := 3
	for i, res := range resOptions {
		if cfg.ScreenWidth == res.W && cfg.ScreenHeight == res.H {
			selectedRes = i
			break
		}
	}

	window.StartTextInput()
	defer window.StopTextInput()

	for {
		var e sdl.Event
		for sdl.PollEvent(&e) {
			switch e.Type {
			case sdl.EVENT_QUIT:
				return false
			case sdl.EVENT_MOUSE_BUTTON_DOWN:
				me := e.MouseButtonEvent()
				mx, my := me.X, me.Y

				focus = -1
				for i := 0; i < numFields; i++ {
					top := float32(50 + i*70)
					if inside(mx, my, 50, top, 700, top+30) {
						focus = i
					}
				}

				if inside(mx, my, 710, 120, 780, 150) {
					cb := sdl.NewDialogFileCallback(func(fileList []string, filter int32) {
						if len(fileList) > 0 {
							cfg.OutputDir = fileList[0]
						}
					})
					sdl.ShowOpenFolderDialog(cb, window, "", false)
				} else if inside(mx, my, 710, 190, 780, 220) {
					filters := []sdl.DialogFileFilter{{Name: "SQLite databases", Pattern: "db"}}
					cb := sdl.NewDialogFileCallback(func(fileList []string, filter int32) {
						if len(fileList) > 0 {
							cfg.Database = fileList[0]
						}
					})
					sdl.ShowSaveFileDialog(cb, window, filters, "abcolour.db")
				}

				for i := range resOptions {
					top := float32(260 + i*40)
					if inside(mx, my, 50, top, 300, top+30) {
						selectedRes = i
					}
				}
				if inside(mx, my, 50, 520, 300, 550) {
					cfg.Experiment.Practice = !cfg.Experiment.Practice
				}
				if inside(mx, my, 50, 570, 300, 600) {
					cfg.Fullscreen = !cfg.Fullscreen
				}

				if inside(mx, my, 350, 650, 450, 690) {
					cfg.ScreenWidth = resOptions[selectedRes].W
					cfg.ScreenHeight = resOptions[selectedRes].H
					if err := cfg.Validate(); err != nil {
						status = err.Error()
						break
					}
					if err := cfg.SaveCache(); err != nil {
						fmt.Printf("Failed to save setup cache: %v\n", err)
					}
					return true
				}
			case sdl.EVENT_TEXT_INPUT:
				if target := fieldValue(cfg, focus); target != nil {
					*target += e.TextInputEvent().Text
				}
			case sdl.EVENT_KEY_DOWN:
				if e.KeyboardEvent().Key == sdl.K_BACKSPACE {
					if target := fieldValue(cfg, focus); target != nil && len(*target) > 0 {
						*target = (*target)[:len(*target)-1]
					}
				}
			}
		}

		renderer.SetDrawColor(240, 240, 240, 255)
		renderer.Clear()
		black := sdl.Color{R: 0, G: 0, B: 0, A: 255}

		labels := []string{"Participant ID:", "Output Directory:", "Database File:"}
		for i, label := range labels {
			top := float32(50 + i*70)
			screen.label(label, 50, top-30, black)

			renderer.SetDrawColor(255, 255, 255, 255)
			box := sdl.FRect{X: 50, Y: top, W: 650, H: 30}
			renderer.RenderFillRect(&box)
			if focus == i {
				renderer.SetDrawColor(0, 120, 255, 255)
			} else {
				renderer.SetDrawColor(180, 180, 180, 255)
			}
			renderer.RenderRect(&box)
			screen.label(*fieldValue(cfg, i), 55, top+5, black)

			if i == fieldParticipant {
				continue
			}
			renderer.SetDrawColor(200, 200, 200, 255)
			btn := sdl.FRect{X: 710, Y: top, W: 70, H: 30}
			renderer.RenderFillRect(&btn)
			renderer.SetDrawColor(0, 0, 0, 255)
			renderer.RenderRect(&btn)
			screen.label("...", 735, top+5, black)
		}

		for i, opt := range resOptions {
			screen.checkbox(opt.Label, float32(260+i*40), selectedRes == i)
		}
		screen.checkbox("Run practice blocks", 520, cfg.Experiment.Practice)
		screen.checkbox("Fullscreen mode", 570, cfg.Fullscreen)

		renderer.SetDrawColor(0, 150, 0, 255)
		startBtn := sdl.FRect{X: 350, Y: 650, W: 100, H: 40}
		renderer.RenderFillRect(&startBtn)
		screen.label("START", 375, 660, sdl.Color{R: 255, G: 255, B: 255, A: 255})
		screen.label(status, 50, 705, sdl.Color{R: 200, G: 0, B: 0, A: 255})

		renderer.Present()
		sdl.Delay(10)
	}
}
