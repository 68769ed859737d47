package render

// svgTemplate draws orbits, rotating electron groups and the nucleus.
const svgTemplate = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 {{.Size}} {{.Size}}" width="{{.Size}}" height="{{.Size}}" data-element="{{html .Scene.Symbol}}">
  <defs>
    <filter id="glow-particles" x="-50%" y="-50%" width="200%" height="200%">
      <feGaussianBlur stdDeviation="1.5" result="coloredBlur"/>
      <feMerge><feMergeNode in="coloredBlur"/><feMergeNode in="SourceGraphic"/></feMerge>
    </filter>
    <radialGradient id="protonGrad"><stop offset="0%" stop-color="#ef4444"/><stop offset="100%" stop-color="#991b1b"/></radialGradient>
    <radialGradient id="neutronGrad"><stop offset="0%" stop-color="#94a3b8"/><stop offset="100%" stop-color="#475569"/></radialGradient>
    <radialGradient id="electronGrad"><stop offset="0%" stop-color="#60A5FA"/><stop offset="100%" stop-color="#2563EB"/></radialGradient>
  </defs>
  <g transform="translate({{num .Center}}, {{num .Center}})">
{{- range .Scene.Shells}}
    <circle class="orbit" r="{{num .Radius}}" fill="none" stroke="#475569" stroke-width="1" stroke-opacity="0.3" stroke-dasharray="4 4"/>
{{- end}}
{{- range .Scene.Shells}}{{$radius := .Radius}}
    <g class="shell" data-shell="{{.Index}}" data-period="{{num .RotationPeriod}}">
{{- if $.Animate}}
      <animateTransform attributeName="transform" type="rotate" from="0" to="360" dur="{{num .RotationPeriod}}s" repeatCount="indefinite"/>
{{- end}}
{{- range .Electrons}}
      <g class="electron" transform="rotate({{num .AngleDegrees}})"><g transform="translate({{num $radius}}, 0)">
        <circle r="8" fill="#3B82F6" opacity="0.4" filter="url(#glow-particles)"/>
        <circle r="4" fill="url(#electronGrad)"/>
        <text x="0" y="2.5" text-anchor="middle" fill="white" font-size="6" font-weight="bold">-</text>
      </g></g>
{{- end}}
    </g>
{{- end}}
    <g class="nucleus" filter="url(#glow-particles)">
{{- range .Scene.Nucleons}}
      <g class="{{.Kind}}" transform="translate({{num .X}}, {{num .Y}})">
{{- if isProton .Kind}}
        <circle r="{{num .Radius}}" fill="url(#protonGrad)" stroke="#7f1d1d" stroke-width="0.5"/>
{{- if gt5 .Radius}}
        <text x="0" y="{{labelY .Radius}}" text-anchor="middle" fill="white" font-size="{{num .Radius}}" font-weight="bold">+</text>
{{- end}}
{{- else}}
        <circle r="{{num .Radius}}" fill="url(#neutronGrad)" stroke="#1e293b" stroke-width="0.5"/>
{{- end}}
      </g>
{{- end}}
    </g>
  </g>
</svg>
`

// pageTemplate is the html/template for the atom page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Element.Name}} ({{.Element.Symbol}}) — Atomik</title>
  <style>
    body { margin: 0; background: #020617; color: #e2e8f0; font-family: system-ui, sans-serif; }
    header { display: flex; justify-content: space-between; align-items: center; padding: 0 2rem; height: 4rem; border-bottom: 1px solid #1e293b; background: rgba(15,23,42,.5); }
    header h1 { margin: 0; font-size: 1.25rem; color: #818cf8; }
    header small { color: #64748b; }
    select { background: #0f172a; color: #e0e7ff; border: 1px solid #334155; border-radius: .75rem; padding: .5rem 1rem; }
    main { display: grid; grid-template-columns: 1fr 1fr; gap: 1.5rem; max-width: 80rem; margin: 0 auto; padding: 1.5rem; }
    .panel { background: rgba(15,23,42,.5); border: 1px solid #1e293b; border-radius: 1.5rem; padding: 1.5rem; }
    .atom svg { width: 100%; height: auto; max-width: 600px; }
    .composition { display: grid; grid-template-columns: repeat(3, 1fr); gap: .5rem; }
    .composition div { background: rgba(30,41,59,.5); border-radius: .75rem; padding: .5rem; text-align: center; }
    .composition b { display: block; font-size: 1.5rem; }
    .hero { border-radius: 1rem; padding: 1.5rem; }
    .stats { display: grid; grid-template-columns: 1fr 1fr; gap: .75rem; margin: 1rem 0; }
    .stat { background: rgba(30,41,59,.5); border: 1px solid #334155; border-radius: .75rem; padding: .75rem; }
    .stat span { display: block; font-size: .7rem; text-transform: uppercase; color: #94a3b8; }
    .mono { font-family: ui-monospace, monospace; }
    .insight .loading { color: #64748b; }
    .table { grid-column: 1 / -1; overflow-x: auto; }
    .grid { display: grid; grid-template-columns: repeat(18, minmax(2rem, 1fr)); gap: 2px; min-width: 700px; }
    .fblock { display: grid; grid-template-columns: repeat(15, minmax(2rem, 1fr)); gap: 2px; margin: 1rem 0 0 11.11%; width: 83.33%; }
    .cell { aspect-ratio: 1; border-radius: 4px; display: flex; flex-direction: column; align-items: center; justify-content: center; font-size: .8rem; text-decoration: none; opacity: .8; }
    .cell:hover, .cell.selected { opacity: 1; outline: 2px solid #fff; }
    .cell small { font-size: .55rem; }
    .placeholder { color: #475569; border: 1px solid rgba(30,41,59,.5); font-size: .55rem; }
    .legend { display: flex; flex-wrap: wrap; gap: .75rem; justify-content: center; margin-top: 1.5rem; font-size: .75rem; color: #94a3b8; }
    .legend i { display: inline-block; width: .6rem; height: .6rem; border-radius: 50%; margin-right: .3rem; }
  </style>
</head>
<body data-element="{{.Element.AtomicNumber}}" data-ws="{{.SocketWS}}">
  <header>
    <div><h1>Atomik</h1><small>Grade 11 Chemistry Simulator</small></div>
    <select id="element-select" aria-label="Element">
      {{- range .Elements}}
      <option value="{{.AtomicNumber}}"{{if eq .AtomicNumber $.Element.AtomicNumber}} selected{{end}}>{{.AtomicNumber}}. {{.Name}} ({{.Symbol}})</option>
      {{- end}}
    </select>
  </header>
  <main>
    <section class="panel atom">
      <h2 class="mono">Atomic Structure</h2>
      <div id="atom">{{.AtomSVG}}</div>
      <h3 class="mono">Subatomic Composition — <span id="composition-name">{{.Element.Name}} ({{.Element.Symbol}})</span></h3>
      <div class="composition">
        <div><b id="protons" style="color:#f87171">{{.Scene.ProtonCount}}</b>Protons<br><small>(+) Charge</small></div>
        <div><b id="neutrons">{{.Scene.NeutronCount}}</b>Neutrons<br><small>(0) Charge</small></div>
        <div><b id="electrons" style="color:#60a5fa">{{.Scene.ElectronCount}}</b>Electrons<br><small>(-) Charge</small></div>
      </div>
    </section>
    <section class="panel details">
      <div class="hero" id="hero" style="background: {{.Palette.Background}}; color: {{.Palette.Foreground}}">
        <h1><span id="hero-name">{{.Element.Name}}</span> <small class="mono" id="hero-number">{{.Element.AtomicNumber}}</small></h1>
        <p id="hero-category">{{.Element.Category}}</p>
        <div id="hero-summary">{{.SummaryHTML}}</div>
      </div>
      <div class="stats">
        <div class="stat"><span>Atomic Mass</span><span id="stat-mass">{{.Element.AtomicMass}}</span> u</div>
        <div class="stat"><span>Configuration</span><div class="mono" id="stat-config">{{.Element.ElectronConfiguration}}</div></div>
        <div class="stat"><span>Block</span><span id="stat-block">{{.Element.Block}}</span>-block</div>
        <div class="stat"><span>Group / Period</span><span id="stat-group">{{.Element.Group}}</span> / <span id="stat-period">{{.Element.Period}}</span></div>
      </div>
      <div class="insight" id="insight">
        <h3>Chemist's Insight (AI)</h3>
        {{- if .Insight.Loading}}
        <p class="loading">Analyzing elemental properties...</p>
        {{- else if .Insight.Missing}}
        <p class="loading">Select an API Key to view insights</p>
        {{- else}}
        <p><b>Did you know?</b><br><span id="fun-fact">{{.Insight.FunFact}}</span></p>
        <p><b>Real World Application:</b><br><span id="real-world-use">{{.Insight.RealWorldUse}}</span></p>
        <p><b>Bonding Behavior:</b><br><span id="bonding-behavior">{{.Insight.BondingBehavior}}</span></p>
        {{- end}}
      </div>
    </section>
    <section class="panel table">
      <div class="grid">
        {{- range .Table.Main}}{{range .}}
        {{- if eq .Kind "element"}}{{$p := colors .Element.Category}}
        <a class="cell{{if isSelected . $.Element.AtomicNumber}} selected{{end}}" href="/elements/{{.Element.AtomicNumber}}" data-number="{{.Element.AtomicNumber}}" style="background: {{$p.Background}}; color: {{$p.Foreground}}"><small>{{.Element.AtomicNumber}}</small>{{.Element.Symbol}}</a>
        {{- else if eq .Kind "placeholder"}}
        <div class="cell placeholder">{{.Label}}</div>
        {{- else}}
        <div></div>
        {{- end}}
        {{- end}}{{end}}
      </div>
      <div class="fblock">
        {{- range .Table.FBlock}}{{range .}}
        {{- if eq .Kind "element"}}{{$p := colors .Element.Category}}
        <a class="cell{{if isSelected . $.Element.AtomicNumber}} selected{{end}}" href="/elements/{{.Element.AtomicNumber}}" data-number="{{.Element.AtomicNumber}}" style="background: {{$p.Background}}; color: {{$p.Foreground}}"><small>{{.Element.AtomicNumber}}</small>{{.Element.Symbol}}</a>
        {{- else}}
        <div></div>
        {{- end}}
        {{- end}}{{end}}
      </div>
      <div class="legend">
        {{- range .Legend}}
        <span><i style="background: {{.Palette.Background}}"></i>{{.Category}}</span>
        {{- end}}
      </div>
    </section>
  </main>
  <footer class="mono" style="text-align:center;color:#475569;padding:1rem">atomik {{.Version}}</footer>
  <script>
  (function () {
    var body = document.body;
    var latest = 0;
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + body.dataset.ws);
    var panel = document.getElementById("insight");

    function setText(id, v) { var el = document.getElementById(id); if (el) el.textContent = v; }
    function showInsight(msg) {
      panel.innerHTML = "<h3>Chemist's Insight (AI)</h3>" +
        "<p><b>Did you know?</b><br><span id='fun-fact'></span></p>" +
        "<p><b>Real World Application:</b><br><span id='real-world-use'></span></p>" +
        "<p><b>Bonding Behavior:</b><br><span id='bonding-behavior'></span></p>";
      setText("fun-fact", msg.insight.funFact);
      setText("real-world-use", msg.insight.realWorldUse);
      setText("bonding-behavior", msg.insight.bondingBehavior);
    }
    function select(n) { ws.send(JSON.stringify({type: "select", element: String(n)})); }

    ws.onopen = function () { select(body.dataset.element); };
    ws.onmessage = function (ev) {
      var msg = JSON.parse(ev.data);
      if (msg.version < latest) return;
      latest = msg.version;
      if (msg.type === "loading") {
        panel.innerHTML = "<h3>Chemist's Insight (AI)</h3><p class='loading'>Analyzing elemental properties...</p>";
      } else if (msg.type === "scene") {
        var el = msg.element;
        document.getElementById("atom").innerHTML = msg.svg;
        setText("protons", msg.scene.protonCount);
        setText("neutrons", msg.scene.neutronCount);
        setText("electrons", el.atomicNumber);
        setText("composition-name", el.name + " (" + el.symbol + ")");
        setText("hero-name", el.name);
        setText("hero-number", el.atomicNumber);
        setText("hero-category", el.category);
        document.getElementById("hero-summary").innerHTML = msg.summaryHtml;
        var hero = document.getElementById("hero");
        hero.style.background = msg.palette.background;
        hero.style.color = msg.palette.foreground;
        setText("stat-mass", el.atomicMass);
        setText("stat-config", el.electronConfiguration);
        setText("stat-block", el.block);
        setText("stat-group", el.group);
        setText("stat-period", el.period);
        document.getElementById("element-select").value = String(el.atomicNumber);
        document.querySelectorAll(".cell.selected").forEach(function (c) { c.classList.remove("selected"); });
        document.querySelectorAll('.cell[data-number="' + el.atomicNumber + '"]').forEach(function (c) { c.classList.add("selected"); });
        body.dataset.element = el.atomicNumber;
        history.replaceState(null, "", "/elements/" + el.atomicNumber);
      } else if (msg.type === "insight") {
        showInsight(msg);
      } else if (msg.type === "error") {
        panel.innerHTML = "<h3>Chemist's Insight (AI)</h3><p class='loading'></p>";
        panel.querySelector("p").textContent = msg.error;
      }
    };
    document.getElementById("element-select").addEventListener("change", function (e) {
      select(e.target.value);
    });
    document.querySelectorAll("a.cell[data-number]").forEach(function (a) {
      a.addEventListener("click", function (e) {
        if (ws.readyState !== WebSocket.OPEN) return;
        e.preventDefault();
        select(a.dataset.number);
      });
    });
  })();
  </script>
</body>
</html>
`
