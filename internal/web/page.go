package web

import (
	"html/template"

	"github.com/KaramelBytes/mused/internal/analysis"
)

var funcs = template.FuncMap{
	"stat": analysis.FormatValue,
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Mused</title>
<script src="https://cdn.tailwindcss.com"></script>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<style>
.chart svg { width: 100%; height: auto; }
</style>
</head>
<body class="bg-slate-100 text-slate-900">
<main class="max-w-7xl mx-auto p-6 space-y-6">
  <header>
    <h1 class="text-4xl font-bold">Mused: An Itunes Music Dashboard</h1>
    <p class="mt-4 rounded-lg bg-slate-200 p-4 text-center italic font-semibold">This Dashboard showcases the music playlist over a period of time. It includes the genre, song size, price in dollars and runtime of each song. Feel free to explore various genres of music with charts and menus. Discover new songs and new paths!</p>
  </header>

  <section class="grid grid-cols-2 md:grid-cols-4 gap-4" id="stats">
    <div class="rounded-lg bg-slate-200 p-4 text-center"><div class="text-2xl font-bold">{{.Stats.SongCount}}</div><div class="text-xs uppercase text-slate-600">Total Number of Songs</div></div>
    <div class="rounded-lg bg-slate-200 p-4 text-center"><div class="text-2xl font-bold">{{stat .Stats.MeanRuntime}}</div><div class="text-xs uppercase text-slate-600">Average Runtime of a Song in minutes</div></div>
    <div class="rounded-lg bg-slate-200 p-4 text-center"><div class="text-2xl font-bold">{{stat .Stats.MeanSize}}</div><div class="text-xs uppercase text-slate-600">Average Size of a Song in megabytes</div></div>
    <div class="rounded-lg bg-slate-200 p-4 text-center"><div class="text-2xl font-bold">{{stat .Stats.MeanPrice}}</div><div class="text-xs uppercase text-slate-600">Average Price of a Song in dollars</div></div>
  </section>

  <section class="grid grid-cols-1 md:grid-cols-2 gap-4" id="charts">
    {{range .Panels}}
    <div class="chart rounded-lg bg-slate-200 p-2{{if .Wide}} md:col-span-2{{end}}" id="chart-{{.Name}}">{{.SVG}}</div>
    {{end}}
  </section>

  <section id="controls" class="grid grid-cols-1 md:grid-cols-3 gap-4">
    <div class="rounded-lg bg-slate-200 p-4">
      <label class="block text-sm font-semibold mb-1" for="genre">Pick a Genre</label>
      <select id="genre" name="genre" class="w-full rounded p-1"
        hx-post="/callback" hx-trigger="change" hx-include="#controls" hx-swap="none">
        <option value="{{.Controls.Genre}}" selected disabled>{{.Controls.Genre}}</option>
        {{range .Genres}}<option value="{{.}}">{{.}}</option>{{end}}
      </select>
    </div>
    <div class="rounded-lg bg-slate-200 p-4">
      <span class="block text-sm font-semibold mb-1">Choose how long you want the song to be!</span>
      <div class="flex gap-2">
        <input type="number" id="runtime_min" name="runtime_min" class="w-1/2 rounded p-1"
          min="{{.RuntimeMin}}" max="{{.RuntimeMax}}" step="{{.RuntimeStep}}" value="{{index .Controls.Runtime 0}}"
          hx-post="/callback" hx-trigger="change" hx-include="#controls" hx-swap="none">
        <input type="number" id="runtime_max" name="runtime_max" class="w-1/2 rounded p-1"
          min="{{.RuntimeMin}}" max="{{.RuntimeMax}}" step="{{.RuntimeStep}}" value="{{index .Controls.Runtime 1}}"
          hx-post="/callback" hx-trigger="change" hx-include="#controls" hx-swap="none">
      </div>
    </div>
    <div class="rounded-lg bg-slate-200 p-4">
      <label class="block text-sm font-semibold mb-1" for="artist">Select an Artist</label>
      <select id="artist" name="artist" class="w-full rounded p-1"
        hx-post="/callback" hx-trigger="change" hx-include="#controls" hx-swap="none">
        <option value="{{.Controls.Artist}}" selected disabled>{{.Controls.Artist}}</option>
        {{range .Artists}}<option value="{{.}}">{{.}}</option>{{end}}
      </select>
    </div>
  </section>

  <section class="rounded-lg bg-slate-200 p-4 space-y-3">
    <h2 class="text-center font-semibold italic bg-slate-300 p-2 rounded">What did you select? Choose from the menus above!</h2>
    {{range .Updates}}{{template "update" .}}{{end}}
  </section>

  <footer class="text-center text-sm text-slate-500">Ama Assiamah. Data Copyright: Apple. @2023</footer>
</main>
</body>
</html>
{{define "update"}}{{if eq .Output "site"}}<a id="site" href="{{.Href}}" target="_blank" rel="noopener" class="text-blue-700 underline">{{.Text}}</a>{{else}}<pre id="output" class="whitespace-pre-wrap font-sans">{{.Text}}</pre>{{end}}{{end}}
`

// updatesTemplate renders recomputed outputs as out-of-band swaps.
const updatesTemplate = `{{range .Updates}}{{if eq .Output "site"}}<a id="site" href="{{.Href}}" target="_blank" rel="noopener" class="text-blue-700 underline" hx-swap-oob="true">{{.Text}}</a>
{{else}}<pre id="output" class="whitespace-pre-wrap font-sans" hx-swap-oob="true">{{.Text}}</pre>
{{end}}{{end}}`

var (
	pageTmpl    = template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
	updatesTmpl = template.Must(template.New("updates").Parse(updatesTemplate))
)
