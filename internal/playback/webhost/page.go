package webhost

const playerPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>focusloop player</title>
<style>
  html, body { margin: 0; height: 100%; background: #111; color: #ddd; font-family: sans-serif; }
  #stage { position: absolute; inset: 0; }
  #stage iframe { width: 100%; height: 100%; border: 0; }
  #empty { position: absolute; top: 50%; width: 100%; text-align: center; }
</style>
</head>
<body>
<div id="empty">No track loaded</div>
<div id="stage"></div>
<script>
(function () {
  var stage = document.getElementById("stage");
  var empty = document.getElementById("empty");
  var current = 0;
  var frame = null;

  function unmount() {
    if (frame) {
      frame.remove();
      frame = null;
    }
    current = 0;
    empty.style.display = "block";
  }

  function mount(message) {
    unmount();
    frame = document.createElement("iframe");
    frame.allow = "autoplay; encrypted-media";
    frame.src = message.src;
    stage.appendChild(frame);
    current = message.surface;
    empty.style.display = "none";
  }

  var events = new EventSource("events");
  events.addEventListener("mount", function (e) { mount(JSON.parse(e.data)); });
  events.addEventListener("unmount", function (e) {
    var message = JSON.parse(e.data);
    if (message.surface === current) { unmount(); }
  });
  events.addEventListener("command", function (e) {
    var message = JSON.parse(e.data);
    if (!frame || message.surface !== current) { return; }
    frame.contentWindow.postMessage(JSON.stringify(message.command), "*");
  });
})();
</script>
</body>
</html>
`
